// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package feed (Postgres) implements post storage on pgx.

# Schema Table Mapping
  - feed.post: post rows; seq preserves insertion order.
  - users.account: postids, the creator's ordered post collection.

Create and Delete touch both tables inside one transaction.
*/
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quill/internal/platform/apperr"
	"github.com/taibuivan/quill/internal/platform/database/schema"
	"github.com/taibuivan/quill/internal/platform/dberr"
	"github.com/taibuivan/quill/internal/platform/postgres"
)

// PostgresPostRepository implements [Repository] using pgx.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new Postgres implementation of [Repository].
func NewPostRepository(pool *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

// selectPost joins each post with its creator summary.
var selectPost = fmt.Sprintf(`
	SELECT p.%s::text, p.%s, p.%s, p.%s, a.%s::text, a.%s, p.%s, p.%s
	FROM %s p
	JOIN %s a ON a.%s = p.%s`,
	schema.FeedPost.ID, schema.FeedPost.Title, schema.FeedPost.Content, schema.FeedPost.ImageURL,
	schema.UserAccount.ID, schema.UserAccount.Name,
	schema.FeedPost.CreatedAt, schema.FeedPost.UpdatedAt,
	schema.FeedPost.Table, schema.UserAccount.Table,
	schema.UserAccount.ID, schema.FeedPost.CreatorID,
)

func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.Creator.ID,
		&post.Creator.Name,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func collectPosts(rows pgx.Rows) ([]*Post, error) {
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// # Queries

// Count returns the total number of posts.
func (repository *PostgresPostRepository) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.FeedPost.Table)

	var total int
	if err := repository.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_post_repo_count_failed: %w", err)
	}
	return total, nil
}

/*
List returns one window of posts in the requested order.

Parameters:
  - ctx: context.Context
  - order: OrderInsertion (seq ascending) or OrderNewest (createdat descending)
  - limit, offset: window bounds

Returns:
  - []*Post: possibly empty
  - error: storage failures
*/
func (repository *PostgresPostRepository) List(ctx context.Context, order Order, limit, offset int) ([]*Post, error) {
	orderBy := fmt.Sprintf("p.%s ASC", schema.FeedPost.Seq)
	if order == OrderNewest {
		orderBy = fmt.Sprintf("p.%s DESC, p.%s DESC", schema.FeedPost.CreatedAt, schema.FeedPost.Seq)
	}

	query := selectPost + ` ORDER BY ` + orderBy + ` LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_list_failed: %w", err)
	}

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_list_scan_failed: %w", err)
	}
	return posts, nil
}

// FindByID retrieves a post with its creator summary.
func (repository *PostgresPostRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	query := selectPost + fmt.Sprintf(` WHERE p.%s = $1`, schema.FeedPost.ID)

	post, err := scanPost(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, apperr.NotFound("Post"))
	}
	return post, nil
}

// FindByIDs retrieves posts in the order of ids, skipping missing ones.
func (repository *PostgresPostRepository) FindByIDs(ctx context.Context, ids []string) ([]*Post, error) {
	query := selectPost + fmt.Sprintf(` WHERE p.%s = ANY($1::uuid[])`, schema.FeedPost.ID)

	rows, err := repository.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_find_by_ids_failed: %w", err)
	}

	found, err := collectPosts(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_find_by_ids_scan_failed: %w", err)
	}

	byID := make(map[string]*Post, len(found))
	for _, post := range found {
		byID[post.ID] = post
	}

	ordered := make([]*Post, 0, len(found))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			ordered = append(ordered, post)
		}
	}
	return ordered, nil
}

// # Commands

/*
Create inserts the post and appends its ID to the creator's collection.

Description: Both statements run in one transaction. A missing creator row
rolls the insert back.
*/
func (repository *PostgresPostRepository) Create(ctx context.Context, post *Post) error {
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		schema.FeedPost.Table,
		schema.FeedPost.ID, schema.FeedPost.Title, schema.FeedPost.Content, schema.FeedPost.ImageURL,
		schema.FeedPost.CreatorID, schema.FeedPost.CreatedAt, schema.FeedPost.UpdatedAt,
	)

	appendQuery := fmt.Sprintf(`
		UPDATE %s SET %s = array_append(%s, $1::uuid), %s = $3
		WHERE %s = $2`,
		schema.UserAccount.Table,
		schema.UserAccount.PostIDs, schema.UserAccount.PostIDs, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	now := time.Now().UTC()

	err := postgres.InTx(ctx, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertQuery,
			post.ID, post.Title, post.Content, post.ImageURL, post.Creator.ID, now,
		); err != nil {
			return fmt.Errorf("postgres_post_repo_insert_failed: %w", err)
		}

		tag, err := tx.Exec(ctx, appendQuery, post.ID, post.Creator.ID, now)
		if err != nil {
			return fmt.Errorf("postgres_post_repo_append_failed: %w", err)
		}
		if tag.RowsAffected() != 1 {
			return apperr.NotFound("User")
		}
		return nil
	})
	if err != nil {
		return err
	}

	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

// Update overwrites title, content and image. The creator is never written.
func (repository *PostgresPostRepository) Update(ctx context.Context, post *Post) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1`,
		schema.FeedPost.Table,
		schema.FeedPost.Title, schema.FeedPost.Content, schema.FeedPost.ImageURL, schema.FeedPost.UpdatedAt,
		schema.FeedPost.ID,
	)

	now := time.Now().UTC()

	tag, err := repository.pool.Exec(ctx, query, post.ID, post.Title, post.Content, post.ImageURL, now)
	if err != nil {
		return fmt.Errorf("postgres_post_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}

	post.UpdatedAt = now
	return nil
}

/*
Delete removes the post and pulls its ID from the creator's collection.

Description: Both statements run in one transaction; a post that vanished
concurrently yields 404 and nothing is changed.
*/
func (repository *PostgresPostRepository) Delete(ctx context.Context, post *Post) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.FeedPost.Table, schema.FeedPost.ID)

	pullQuery := fmt.Sprintf(`
		UPDATE %s SET %s = array_remove(%s, $1::uuid), %s = NOW()
		WHERE %s = $2`,
		schema.UserAccount.Table,
		schema.UserAccount.PostIDs, schema.UserAccount.PostIDs, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	return postgres.InTx(ctx, repository.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteQuery, post.ID)
		if err != nil {
			return fmt.Errorf("postgres_post_repo_delete_failed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Post")
		}

		if _, err := tx.Exec(ctx, pullQuery, post.ID, post.Creator.ID); err != nil {
			return fmt.Errorf("postgres_post_repo_pull_failed: %w", err)
		}
		return nil
	})
}
