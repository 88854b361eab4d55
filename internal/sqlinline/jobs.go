package sqlinline

const QInsertJob = `--sql dec82e89-6640-4037-bb8f-745797142079
insert into jobs(
  job_id,
  device_id,
  status,
  original_prompt,
  enhanced_prompt,
  asset_id,
  settings,
  thought_signature,
  conversation_history,
  progress_message,
  created_at,
  updated_at
) values ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9::jsonb, $10, $11, $11)
returning created_at, updated_at;
`

const QUpdateJobProgress = `--sql 2e9cdd06-1a15-49e9-a4fd-28703ff3f9f1
update jobs
set progress_message = $2,
    updated_at = now()
where job_id = $1
  and status = 'processing';
`

// QFinalizeJob writes every result field at once and only while the job is
// still processing, so a terminal state is never overwritten.
const QFinalizeJob = `--sql 6c3d57df-7219-4ec9-965f-31f0933c7e67
update jobs
set status = $2,
    preview_url = $3,
    final_url = $3,
    thought_signature = $4,
    progress_message = $5,
    error = $6,
    conversation_history = $7::jsonb,
    updated_at = $8
where job_id = $1
  and status = 'processing';
`

const QSelectJobByID = `--sql 3eccda6f-870e-452a-ab6b-c39974909c69
select
  job_id,
  device_id,
  status,
  original_prompt,
  coalesce(enhanced_prompt, ''),
  preview_url,
  final_url,
  asset_id,
  settings,
  thought_signature,
  conversation_history,
  progress_message,
  error,
  created_at,
  updated_at
from jobs
where job_id = $1
limit 1;
`

const QListJobsByDevice = `--sql c414d6fa-62e2-4c99-bad8-60952e807b6d
select
  job_id,
  device_id,
  status,
  original_prompt,
  coalesce(enhanced_prompt, ''),
  preview_url,
  final_url,
  asset_id,
  settings,
  thought_signature,
  conversation_history,
  progress_message,
  error,
  created_at,
  updated_at
from jobs
where device_id = $1
order by created_at desc
limit $2::int;
`

const QFailStaleJobs = `--sql 3b6d3e96-3449-49e4-8ea7-3fa2fed8eb2e
update jobs
set status = 'failed',
    error = $2,
    progress_message = null,
    updated_at = now()
where status = 'processing'
  and updated_at < $1;
`
