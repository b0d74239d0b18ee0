package database

// Groups must exist before anything that references them.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id          BIGSERIAL PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    description TEXT,
    created_by  BIGINT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id     BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    user_id      BIGINT NOT NULL,
    display_name VARCHAR(100) NOT NULL,
    status       VARCHAR(16) NOT NULL DEFAULT 'INVITED',
    role         VARCHAR(16) NOT NULL DEFAULT 'MEMBER',
    joined_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS split_records (
    id                  UUID PRIMARY KEY,
    original_expense_id TEXT NOT NULL DEFAULT '',
    group_id            BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    total_amount        NUMERIC(14, 2) NOT NULL CHECK (total_amount > 0),
    strategy            VARCHAR(16) NOT NULL,
    description         TEXT,
    status              VARCHAR(16) NOT NULL DEFAULT 'PENDING',
    created_by          BIGINT NOT NULL,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS split_participants (
    split_id       UUID NOT NULL REFERENCES split_records(id) ON DELETE CASCADE,
    user_id        BIGINT NOT NULL,
    position       INT NOT NULL,
    amount         NUMERIC(14, 2) NOT NULL,
    percentage     NUMERIC(7, 4),
    status         VARCHAR(16) NOT NULL DEFAULT 'PENDING',
    decline_reason TEXT,
    confirmed_at   TIMESTAMPTZ,
    settled_at     TIMESTAMPTZ,
    PRIMARY KEY (split_id, user_id)
);

CREATE TABLE IF NOT EXISTS split_templates (
    id         UUID PRIMARY KEY,
    group_id   BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    name       VARCHAR(100) NOT NULL,
    strategy   VARCHAR(16) NOT NULL,
    created_by BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS split_template_participants (
    template_id UUID NOT NULL REFERENCES split_templates(id) ON DELETE CASCADE,
    user_id     BIGINT NOT NULL,
    position    INT NOT NULL,
    weight      NUMERIC(14, 4),
    PRIMARY KEY (template_id, user_id)
);

CREATE TABLE IF NOT EXISTS notifications (
    id                  BIGSERIAL PRIMARY KEY,
    recipient_id        BIGINT NOT NULL,
    type                VARCHAR(32) NOT NULL,
    message             TEXT NOT NULL,
    is_read             BOOLEAN NOT NULL DEFAULT FALSE,
    related_entity_type VARCHAR(32),
    related_entity_id   TEXT,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_split_records_group_created ON split_records(group_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_split_participants_user_id ON split_participants(user_id);
CREATE INDEX IF NOT EXISTS idx_split_templates_group_id ON split_templates(group_id);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, is_read, created_at DESC);
`
