package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Sessions: one scan of a root folder
CREATE TABLE IF NOT EXISTS sessions (
    session_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    root_folder_id TEXT NOT NULL,
    document_count INTEGER DEFAULT 0,
    processed_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_sessions_root ON sessions(root_folder_id);

-- Documents: descriptors discovered by a scan
CREATE TABLE IF NOT EXISTS documents (
    session_id INTEGER NOT NULL,
    document_id TEXT NOT NULL,
    name TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    size_bytes INTEGER DEFAULT 0,
    modified_time TIMESTAMP,
    parent_path TEXT DEFAULT '',
    oversize BOOLEAN DEFAULT 0,
    discovered_order INTEGER,
    PRIMARY KEY (session_id, document_id),
    FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_documents_session ON documents(session_id);
CREATE INDEX IF NOT EXISTS idx_documents_mime ON documents(mime_type);

-- Results: latest processing outcome per document
CREATE TABLE IF NOT EXISTS results (
    session_id INTEGER NOT NULL,
    document_id TEXT NOT NULL,
    tokens INTEGER DEFAULT 0,
    language TEXT,
    error_type TEXT,
    error_message TEXT,
    cache_hit BOOLEAN DEFAULT 0,
    processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, document_id),
    FOREIGN KEY (session_id, document_id)
        REFERENCES documents(session_id, document_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_results_session ON results(session_id);
CREATE INDEX IF NOT EXISTS idx_results_error ON results(error_type);

-- Contents: extracted text cached per document
CREATE TABLE IF NOT EXISTS contents (
    session_id INTEGER NOT NULL,
    document_id TEXT NOT NULL,
    content TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, document_id),
    FOREIGN KEY (session_id, document_id)
        REFERENCES documents(session_id, document_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_contents_hash ON contents(content_hash);

-- Selections: documents admitted into the bundle
CREATE TABLE IF NOT EXISTS selections (
    session_id INTEGER NOT NULL,
    document_id TEXT NOT NULL,
    tokens INTEGER NOT NULL,
    selected_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, document_id),
    FOREIGN KEY (session_id, document_id)
        REFERENCES documents(session_id, document_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_selections_session ON selections(session_id);
`
