package sqlinline

const QListSpotsByCity = `--sql ec762b1e-3d56-49ee-a8fa-d63e7ac015f5
select id, city, name, category, coalesce(description, ''),
       coalesce(image_url, ''), coalesce(booking_slug, ''), created_at
from spots
where lower(city) = lower($1)
order by name
limit $2;
`

const QInsertSpot = `--sql ee0895c6-b373-40a3-9692-6a868420d082
insert into spots(id, city, name, category, description, image_url, booking_slug)
values (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
returning id, created_at;
`
