package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    run_id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid            TEXT UNIQUE NOT NULL,
    target              TEXT NOT NULL,
    provider            TEXT,
    run_timestamp       DATETIME DEFAULT CURRENT_TIMESTAMP,
    run_duration        INTEGER,
    policy_count        INTEGER DEFAULT 0,
    total_findings      INTEGER DEFAULT 0,
    critical_count      INTEGER DEFAULT 0,
    high_count          INTEGER DEFAULT 0,
    medium_count        INTEGER DEFAULT 0,
    low_count           INTEGER DEFAULT 0,
    info_count          INTEGER DEFAULT 0,
    avg_risk_score      REAL DEFAULT 0,
    avg_least_privilege REAL DEFAULT 0,
    cli_version         TEXT,
    run_flags           TEXT,
    created_at          DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_target_timestamp
    ON runs(target, run_timestamp);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp
    ON runs(run_timestamp DESC);

CREATE TABLE IF NOT EXISTS findings (
    finding_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    target          TEXT NOT NULL,
    finding_hash    TEXT NOT NULL,
    category        TEXT NOT NULL,
    rule_type       TEXT NOT NULL,
    severity        TEXT NOT NULL,
    resource_type   TEXT,
    resource_id     TEXT,
    resource_arn    TEXT,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL,
    recommendation  TEXT,
    compliance_tags TEXT,
    first_seen      DATETIME NOT NULL,
    last_seen       DATETIME NOT NULL,
    resolved_at     DATETIME,
    status          TEXT DEFAULT 'OPEN',
    UNIQUE(target, finding_hash)
);

CREATE INDEX IF NOT EXISTS idx_findings_hash ON findings(finding_hash);
CREATE INDEX IF NOT EXISTS idx_findings_status ON findings(status);
CREATE INDEX IF NOT EXISTS idx_findings_category ON findings(category);

CREATE TABLE IF NOT EXISTS run_findings (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         INTEGER NOT NULL,
    finding_hash   TEXT NOT NULL,
    severity       TEXT NOT NULL,
    status         TEXT NOT NULL,
    category       TEXT NOT NULL,
    rule_type      TEXT NOT NULL,
    resource_id    TEXT,
    title          TEXT NOT NULL,
    created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_findings_run ON run_findings(run_id);
CREATE INDEX IF NOT EXISTS idx_run_findings_hash ON run_findings(finding_hash);

CREATE TABLE IF NOT EXISTS metrics (
    metric_id       INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          INTEGER NOT NULL,
    metric_name     TEXT NOT NULL,
    metric_value    REAL NOT NULL,
    metric_unit     TEXT,
    category        TEXT,
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_metrics_run ON metrics(run_id);
CREATE INDEX IF NOT EXISTS idx_metrics_name ON metrics(metric_name);
`
