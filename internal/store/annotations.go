package store

import (
	"context"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

const annotationColumns = `a.id, a.created_at, a.updated_at, a.user_id, a.book_id,
	a.club_id, a.content, a.chapter, a.page_number, a.is_spoiler,
	u.username, u.display_name`

func scanAnnotation(scanner interface{ Scan(dest ...any) error }) (*domain.Annotation, error) {
	var a domain.Annotation
	var createdAt, updatedAt string
	var isSpoiler int

	err := scanner.Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
		&a.UserID,
		&a.BookID,
		&a.ClubID,
		&a.Content,
		&a.Chapter,
		&a.PageNumber,
		&isSpoiler,
		&a.Username,
		&a.DisplayName,
	)
	if err != nil {
		return nil, err
	}

	a.IsSpoiler = isSpoiler != 0
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAnnotation inserts a new annotation.
func (s *Store) CreateAnnotation(ctx context.Context, a *domain.Annotation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO annotations (
			id, created_at, updated_at, user_id, book_id, club_id,
			content, chapter, page_number, is_spoiler
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
		a.UserID,
		a.BookID,
		a.ClubID,
		a.Content,
		a.Chapter,
		a.PageNumber,
		boolToInt(a.IsSpoiler),
	)
	return err
}

// GetAnnotation retrieves an annotation by ID.
func (s *Store) GetAnnotation(ctx context.Context, id string) (*domain.Annotation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+annotationColumns+` FROM annotations a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.id = ?`, id)

	a, err := scanAnnotation(row)
	if err != nil {
		return nil, notFound(err, "annotation")
	}
	return a, nil
}

// ListBookAnnotations returns annotations on a book visible to a user: their
// own personal notes plus anything posted to the given club. An empty clubID
// returns personal notes only.
func (s *Store) ListBookAnnotations(ctx context.Context, bookID, userID, clubID string) ([]*domain.Annotation, error) {
	query := `SELECT ` + annotationColumns + ` FROM annotations a
		JOIN users u ON u.id = a.user_id
		WHERE a.book_id = ? AND (`
	args := []any{bookID}

	query += `(a.club_id = '' AND a.user_id = ?)`
	args = append(args, userID)
	if clubID != "" {
		query += ` OR a.club_id = ?`
		args = append(args, clubID)
	}
	query += `) ORDER BY a.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []*domain.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}
	return annotations, rows.Err()
}

// ListClubAnnotations returns all annotations posted to a club, newest first.
func (s *Store) ListClubAnnotations(ctx context.Context, clubID string) ([]*domain.Annotation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+annotationColumns+` FROM annotations a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.club_id = ? ORDER BY a.created_at DESC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []*domain.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}
	return annotations, rows.Err()
}

// DeleteAnnotation removes a user's annotation.
func (s *Store) DeleteAnnotation(ctx context.Context, userID, annotationID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM annotations WHERE id = ? AND user_id = ?`, annotationID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("annotation not found")
	}
	return nil
}

// AddReaction records an emoji reaction on an annotation.
// Returns an already-exists error when the user already reacted with it.
func (s *Store) AddReaction(ctx context.Context, r *domain.Reaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO annotation_reactions (annotation_id, user_id, emoji, created_at)
		VALUES (?, ?, ?, ?)`,
		r.AnnotationID,
		r.UserID,
		r.Emoji,
		formatTime(r.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domainerrors.AlreadyExists("already reacted with this emoji")
	}
	return err
}

// RemoveReaction deletes a user's emoji reaction.
func (s *Store) RemoveReaction(ctx context.Context, annotationID, userID, emoji string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM annotation_reactions WHERE annotation_id = ? AND user_id = ? AND emoji = ?`,
		annotationID, userID, emoji)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("reaction not found")
	}
	return nil
}

// ListReactions returns all reactions on an annotation.
func (s *Store) ListReactions(ctx context.Context, annotationID string) ([]*domain.Reaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT annotation_id, user_id, emoji, created_at
		 FROM annotation_reactions WHERE annotation_id = ? ORDER BY created_at ASC`,
		annotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []*domain.Reaction
	for rows.Next() {
		var r domain.Reaction
		var createdAt string
		if err := rows.Scan(&r.AnnotationID, &r.UserID, &r.Emoji, &createdAt); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, &r)
	}
	return reactions, rows.Err()
}

// CreateReply inserts a reply to an annotation.
func (s *Store) CreateReply(ctx context.Context, r *domain.Reply) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO annotation_replies (id, annotation_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID,
		r.AnnotationID,
		r.UserID,
		r.Content,
		formatTime(r.CreatedAt),
	)
	return err
}

// ListReplies returns an annotation's replies, oldest first.
func (s *Store) ListReplies(ctx context.Context, annotationID string) ([]*domain.Reply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.annotation_id, r.user_id, r.content, r.created_at,
			u.username, u.display_name
		FROM annotation_replies r
		JOIN users u ON u.id = r.user_id
		WHERE r.annotation_id = ?
		ORDER BY r.created_at ASC`, annotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []*domain.Reply
	for rows.Next() {
		var r domain.Reply
		var createdAt string
		if err := rows.Scan(&r.ID, &r.AnnotationID, &r.UserID, &r.Content, &createdAt,
			&r.Username, &r.DisplayName); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		replies = append(replies, &r)
	}
	return replies, rows.Err()
}

// DeleteReply removes a user's reply.
func (s *Store) DeleteReply(ctx context.Context, userID, replyID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM annotation_replies WHERE id = ? AND user_id = ?`, replyID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainerrors.NotFound("reply not found")
	}
	return nil
}
