package sqlinline

const QInsertItinerary = `--sql 8691b554-d3f4-4e3d-b9d9-440741d29c31
insert into itineraries(id, user_id, city, country, title, interests, days)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::text[], $6::jsonb)
returning id, created_at, updated_at;
`

const QSelectItinerary = `--sql 53fcf8cb-eb6d-4656-8627-bd97f4de9811
select id, user_id, city, coalesce(country, ''), title,
       coalesce(interests, '{}'), days, created_at, updated_at
from itineraries
where id = $1 and user_id = $2;
`

const QListItineraries = `--sql ec5aab21-1b21-4286-88ef-08edbddeacfb
select id, user_id, city, coalesce(country, ''), title,
       coalesce(interests, '{}'), days, created_at, updated_at
from itineraries
where user_id = $1
order by created_at desc
limit $2;
`

const QDeleteItinerary = `--sql 332fe644-3c03-44e6-829b-918882ad8195
delete from itineraries
where id = $1 and user_id = $2;
`

const QCountItineraries = `--sql d8a2329a-8cfd-4fe9-b213-e8aa6a63b0d5
select count(*) from itineraries where user_id = $1;
`
