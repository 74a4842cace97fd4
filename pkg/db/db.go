package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

// Conversation is a locally persisted chat conversation. ExternalChatID holds
// the gateway's own chat identifier once the sync step has reconciled it.
type Conversation struct {
	ID             int64
	Token          string
	Role           string
	ExternalChatID sql.NullString
	StartedAt      time.Time
}

// Message is a single entry in a conversation.
type Message struct {
	ID             int64
	ConversationID int64
	Sender         string
	Content        string
	CreatedAt      time.Time
}

// Queries provides access to the conversation store.
type Queries struct {
	db *sql.DB
}

// New creates a Queries facade over the given database handle.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// Open opens (creating if needed) the sqlite database at path.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := conn.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return conn, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	token TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL,
	external_chat_id TEXT,
	started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversations(id),
	sender TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
`

// RunMigrations applies the schema to the database.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	return nil
}

// CreateConversationParams are the inputs for CreateConversation.
type CreateConversationParams struct {
	Token string
	Role  string
}

// CreateConversation inserts a new conversation and returns the stored row.
func (q *Queries) CreateConversation(ctx context.Context, arg CreateConversationParams) (*Conversation, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO conversations (token, role) VALUES (?, ?)`,
		arg.Token, arg.Role,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert conversation")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read conversation id")
	}
	return q.GetConversation(ctx, id)
}

// GetConversation returns a conversation by internal id.
func (q *Queries) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, token, role, external_chat_id, started_at FROM conversations WHERE id = ?`, id)
	return scanConversation(row)
}

// GetConversationByToken returns a conversation by its public token.
func (q *Queries) GetConversationByToken(ctx context.Context, token string) (*Conversation, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, token, role, external_chat_id, started_at FROM conversations WHERE token = ?`, token)
	return scanConversation(row)
}

// SetExternalChatID records the gateway chat identifier for a conversation.
func (q *Queries) SetExternalChatID(ctx context.Context, id int64, externalChatID string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE conversations SET external_chat_id = ? WHERE id = ?`, externalChatID, id)
	if err != nil {
		return errors.Wrap(err, "failed to set external chat id")
	}
	return nil
}

// InsertMessageParams are the inputs for InsertMessage.
type InsertMessageParams struct {
	ConversationID int64
	Sender         string
	Content        string
}

// InsertMessage appends a message to a conversation and returns the stored row.
func (q *Queries) InsertMessage(ctx context.Context, arg InsertMessageParams) (*Message, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender, content) VALUES (?, ?, ?)`,
		arg.ConversationID, arg.Sender, arg.Content,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert message")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read message id")
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT id, conversation_id, sender, content, created_at FROM messages WHERE id = ?`, id)
	var m Message
	if err := row.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to scan message")
	}
	return &m, nil
}

// ListMessagesForConversation returns all messages for a conversation in
// insertion order.
func (q *Queries) ListMessagesForConversation(ctx context.Context, conversationID int64) ([]*Message, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, content, created_at FROM messages
		 WHERE conversation_id = ? ORDER BY id`, conversationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan message")
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

func scanConversation(row *sql.Row) (*Conversation, error) {
	var c Conversation
	if err := row.Scan(&c.ID, &c.Token, &c.Role, &c.ExternalChatID, &c.StartedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to scan conversation")
	}
	return &c, nil
}
