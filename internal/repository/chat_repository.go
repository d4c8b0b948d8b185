package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"relaychat/api/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) Create(ctx context.Context, chat models.Chat) error {
	const query = `
		INSERT INTO chats (id, user_id, title, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, chat.ID, chat.UserID, chat.Title, chat.Visibility)
	return err
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (models.Chat, error) {
	const query = `
		SELECT id, user_id, title, visibility, created_at, updated_at
		FROM chats WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	var chat models.Chat
	if err := row.Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.Visibility,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Chat{}, ErrChatNotFound
		}
		return models.Chat{}, err
	}
	return chat, nil
}

func (r *ChatRepository) Rename(ctx context.Context, id string, title string) error {
	const query = `UPDATE chats SET title = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, title)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *ChatRepository) UpdateVisibility(ctx context.Context, id string, visibility models.ChatVisibility) error {
	const query = `UPDATE chats SET visibility = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, visibility)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM chats WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	const query = `
		SELECT id, user_id, title, visibility, created_at, updated_at
		FROM chats WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(
			&chat.ID,
			&chat.UserID,
			&chat.Title,
			&chat.Visibility,
			&chat.CreatedAt,
			&chat.UpdatedAt,
		); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *ChatRepository) AddMessage(ctx context.Context, msg models.Message) error {
	const query = `
		INSERT INTO messages (id, chat_id, role, content, model_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.pool.Exec(ctx, query, msg.ID, msg.ChatID, msg.Role, msg.Content, msg.ModelID)
	return err
}
