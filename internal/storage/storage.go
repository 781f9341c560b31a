package storage

import (
	"context"

	"wavelink/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRows is returned when a lookup matches nothing.
var ErrNoRows = pgx.ErrNoRows

const profileColumns = `id, username, email, password_hash, full_name, avatar_url, status, bio, created_at, updated_at`

const profileColumnsP = `p.id, p.username, p.email, p.password_hash, p.full_name, p.avatar_url, p.status, p.bio, p.created_at, p.updated_at`

// Service is the PostgreSQL-backed store.
type Service struct {
	Pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{Pool: pool}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.Password, &p.FullName,
		&p.AvatarURL, &p.Status, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a profile and fills in generated fields.
func (s *Service) CreateProfile(ctx context.Context, p *models.Profile) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO profiles (username, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.Username, p.Email, p.Password, p.FullName).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *Service) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return scanProfile(s.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (s *Service) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return scanProfile(s.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
}

// FindProfileByHandle resolves a handle that may be a username or an email.
func (s *Service) FindProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return scanProfile(s.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = $1 OR email = $1`, handle))
}

// GetProfilesByIDs fetches profiles for all given ids in one query.
func (s *Service) GetProfilesByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	out := make(map[string]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.Pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = *p
	}
	return out, rows.Err()
}

// ProfileUpdate carries owner-editable profile fields.
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	FullName  *string `json:"fullName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Status    *string `json:"status,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// UpdateProfile applies the non-nil fields of upd to the owning user's row.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error) {
	return scanProfile(s.Pool.QueryRow(ctx, `
		UPDATE profiles SET
			username   = COALESCE($2, username),
			full_name  = COALESCE($3, full_name),
			avatar_url = COALESCE($4, avatar_url),
			status     = COALESCE($5, status),
			bio        = COALESCE($6, bio),
			updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		userID, upd.Username, upd.FullName, upd.AvatarURL, upd.Status, upd.Bio))
}

// SetProfileStatus writes the presence status field ("Online"/"Offline").
func (s *Service) SetProfileStatus(ctx context.Context, userID, status string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE profiles SET status = $2, updated_at = now() WHERE id = $1`, userID, status)
	return err
}

// PendingRequestExists reports whether a pending request exists for the
// ordered (sender, recipient) pair.
func (s *Service) PendingRequestExists(ctx context.Context, senderID, recipientID string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM contact_requests
			WHERE sender_id = $1 AND recipient_id = $2 AND status = 'pending')
	`, senderID, recipientID).Scan(&exists)
	return exists, err
}

func (s *Service) CreateContactRequest(ctx context.Context, senderID, recipientID string) (*models.ContactRequest, error) {
	var r models.ContactRequest
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO contact_requests (sender_id, recipient_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, sender_id, recipient_id, status, created_at
	`, senderID, recipientID).Scan(&r.ID, &r.SenderID, &r.RecipientID, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListPendingRequests returns pending requests addressed to the recipient,
// newest first.
func (s *Service) ListPendingRequests(ctx context.Context, recipientID string) ([]models.ContactRequest, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, sender_id, recipient_id, status, created_at
		FROM contact_requests
		WHERE recipient_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ContactRequest
	for rows.Next() {
		var r models.ContactRequest
		if err := rows.Scan(&r.ID, &r.SenderID, &r.RecipientID, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Service) GetContactRequest(ctx context.Context, id string) (*models.ContactRequest, error) {
	var r models.ContactRequest
	err := s.Pool.QueryRow(ctx, `
		SELECT id, sender_id, recipient_id, status, created_at
		FROM contact_requests WHERE id = $1
	`, id).Scan(&r.ID, &r.SenderID, &r.RecipientID, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// AcceptContactRequest transitions a pending request to accepted and inserts
// both contact edges in one transaction. Duplicate edges are absorbed by
// ON CONFLICT so a replayed accept cannot crash the flow.
func (s *Service) AcceptContactRequest(ctx context.Context, requestID string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var senderID, recipientID string
	err = tx.QueryRow(ctx, `
		UPDATE contact_requests SET status = 'accepted'
		WHERE id = $1 AND status = 'pending'
		RETURNING sender_id, recipient_id
	`, requestID).Scan(&senderID, &recipientID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO contacts (user_id, contact_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, contact_id) DO NOTHING
	`, recipientID, senderID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RejectContactRequest transitions a pending request to rejected.
func (s *Service) RejectContactRequest(ctx context.Context, requestID string) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE contact_requests SET status = 'rejected'
		WHERE id = $1 AND status = 'pending'
	`, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// ListContactProfiles returns the profiles reachable via a contact edge from
// userID, optionally filtered by a name/username match.
func (s *Service) ListContactProfiles(ctx context.Context, userID, query string) ([]models.Profile, error) {
	sql := `
		SELECT ` + profileColumnsP + `
		FROM contacts c
		INNER JOIN profiles p ON c.contact_id = p.id
		WHERE c.user_id = $1`
	args := []any{userID}
	if query != "" {
		sql += ` AND (p.full_name ILIKE $2 OR p.username ILIKE $2)`
		args = append(args, "%"+query+"%")
	}
	sql += ` ORDER BY c.added_at DESC`

	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListContactIDs returns ids on either side of an edge with userID, used for
// presence fanout.
func (s *Service) ListContactIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT user_id FROM contacts WHERE contact_id = $1
		UNION
		SELECT contact_id FROM contacts WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// InsertMessage stores a message and fills in generated fields.
func (s *Service) InsertMessage(ctx context.Context, m *models.Message) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO chat_messages (sender_id, chat_room_id, client_id, content, is_read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at
	`, m.SenderID, m.ChatRoomID, m.ClientID, m.Content).Scan(&m.ID, &m.CreatedAt)
}

// ListMessages returns all messages in a room in ascending creation order.
func (s *Service) ListMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, sender_id, chat_room_id, client_id, content, is_read, created_at
		FROM chat_messages
		WHERE chat_room_id = $1
		ORDER BY created_at ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ChatRoomID, &m.ClientID,
			&m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkMessagesRead flips the read flag on room messages not sent by reader.
func (s *Service) MarkMessagesRead(ctx context.Context, roomID, readerID string) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE chat_messages SET is_read = true
		WHERE chat_room_id = $1 AND sender_id <> $2 AND is_read = false
	`, roomID, readerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
