package sqlinline

const QInsertAsset = `--sql cdc43bef-710c-4e3f-82d6-e7369e9649ec
insert into assets(
  asset_id,
  device_id,
  url,
  thumb_url,
  width,
  height,
  mime_type,
  created_at
) values ($1, $2, $3, nullif($4, ''), $5, $6, $7, $8);
`

const QSelectAssetByID = `--sql 7efd4268-ea64-4fc7-baac-5f6bbbf2e1aa
select asset_id, device_id, url, coalesce(thumb_url, ''), width, height, mime_type, created_at
from assets
where asset_id = $1
limit 1;
`
