package pgdb

import (
	"testing"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	category := uuid.New()

	tests := []struct {
		name        string
		q           domain.ProductQuery
		withCreator bool
		ids         []uuid.UUID
		contains    []string
		absent      []string
		args        []any
	}{
		{
			name:     "unfiltered admin list",
			q:        domain.AdminQuery(domain.StatusFilterAll),
			absent:   []string{"WHERE", "LIMIT", "JOIN"},
			contains: []string{"ORDER BY p.created_at DESC, p.id DESC"},
		},
		{
			name:     "public list with category and tag",
			q:        domain.PublicQuery(&category, "New Arrival"),
			contains: []string{"p.status = $1", "p.category_id = $2", "p.tags @> ARRAY[$3]::text[]"},
			args:     []any{"live", category, "New Arrival"},
		},
		{
			name:     "featured",
			q:        domain.FeaturedQuery(),
			contains: []string{"p.status = $1", "LIMIT $2"},
			args:     []any{"live", domain.FeaturedLimit},
		},
		{
			name:        "admin with creator",
			q:           domain.AdminQuery(domain.StatusFilter(domain.StatusDraft)),
			withCreator: true,
			contains:    []string{"pr.full_name", "LEFT JOIN profiles pr ON pr.id = p.created_by", "p.status = $1"},
			args:        []any{"draft"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.q, tt.withCreator, tt.ids)

			for _, s := range tt.contains {
				assert.Contains(t, query, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, query, s)
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildListQueryByIDs(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	query, args := buildListQuery(domain.PublicQuery(nil, ""), false, ids)

	assert.Contains(t, query, "p.id = ANY($1) AND p.status = $2")
	assert.Equal(t, []any{ids, "live"}, args)
}
