package sqlinline

const QSelectIntegrationToken = `--sql ee4f9e1a-9c40-4e8f-adbb-19cdfc686da3
select token
from integration_tokens
where provider = $1
limit 1;
`

const QUpsertIntegrationToken = `--sql 78709a99-943a-4279-a851-bdec75f31068
insert into integration_tokens (provider, token, properties, created_at, updated_at)
values ($1, $2, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
