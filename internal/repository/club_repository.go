package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campusconnect/portal-api/internal/models"
)

const clubColumns = `id, name, description, members, open_positions, established, tags, image, banner, mission, vision, created_at`

// ClubRepository provides database access for the club directory.
type ClubRepository struct {
	db *sqlx.DB
}

// NewClubRepository creates a new instance of ClubRepository.
func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

// List returns clubs, optionally narrowed by a name/description search.
func (r *ClubRepository) List(ctx context.Context, search string) ([]models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs`
	var args []interface{}
	if search != "" {
		query += ` WHERE LOWER(name) LIKE $1 OR LOWER(description) LIKE $1`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` ORDER BY name ASC`

	var clubs []models.Club
	if err := r.db.SelectContext(ctx, &clubs, query, args...); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

// FindByID returns one club by identifier.
func (r *ClubRepository) FindByID(ctx context.Context, id string) (*models.Club, error) {
	const query = `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1 LIMIT 1`
	var club models.Club
	if err := r.db.GetContext(ctx, &club, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find club: %w", err)
	}
	return &club, nil
}
