package repository

// Schema creates the tables used by the repositories. Every statement is
// idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS suggestions (
	suggestion_id    BIGSERIAL PRIMARY KEY,
	user_id          TEXT        NOT NULL,
	suggestion_type  TEXT        NOT NULL DEFAULT '',
	user_goal        TEXT        NOT NULL DEFAULT '',
	time_frame       TEXT        NOT NULL DEFAULT '',
	recommendations  TEXT[]      NOT NULL DEFAULT '{}',
	specific_metrics JSONB       NOT NULL DEFAULT '{}',
	rationale        TEXT        NOT NULL DEFAULT '',
	confidence_score INTEGER     NOT NULL DEFAULT 0,
	request_metadata JSONB       NOT NULL DEFAULT '{}',
	is_active        BOOLEAN     NOT NULL DEFAULT TRUE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_suggestions_user_active
	ON suggestions (user_id, is_active, created_at DESC);

CREATE TABLE IF NOT EXISTS ai_insights (
	insight_id        BIGSERIAL PRIMARY KEY,
	user_id           TEXT        NOT NULL,
	content           TEXT        NOT NULL DEFAULT '',
	suggestion_format TEXT        NOT NULL DEFAULT 'general',
	is_active         BOOLEAN     NOT NULL DEFAULT TRUE,
	expires_at        TIMESTAMPTZ NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ai_insights_user_active
	ON ai_insights (user_id, is_active, created_at DESC);

CREATE TABLE IF NOT EXISTS body_metrics (
	id           BIGSERIAL PRIMARY KEY,
	user_id      TEXT             NOT NULL,
	weight_kg    DOUBLE PRECISION NOT NULL,
	bmi          DOUBLE PRECISION NOT NULL DEFAULT 0,
	bmr          DOUBLE PRECISION NOT NULL DEFAULT 0,
	weight_trend TEXT             NOT NULL DEFAULT '',
	recorded_at  TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_body_metrics_user ON body_metrics (user_id, recorded_at DESC);
`
