package sqlinline

const QSelectUser = `--sql 2b77fdf5-d783-4a60-a301-ade009607af8
select id, email, coalesce(name, ''), coalesce(locale, 'en'),
       coalesce(tier, 'free'), created_at, updated_at
from users
where id = $1;
`

const QUpsertUser = `--sql 2506ad2f-ebb2-49f2-81b9-9a0180308940
insert into users(id, email, name, locale, tier)
values ($1::uuid, $2::text, $3::text, $4::text, coalesce(nullif($5::text, ''), 'free'))
on conflict (id) do update
set email = excluded.email,
    name = excluded.name,
    locale = excluded.locale,
    updated_at = now()
returning id;
`
