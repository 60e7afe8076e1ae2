package repositories

import (
	"database/sql"

	"github.com/clipstream/backend/internal/models"
)

// ownerColumns is the creator projection joined onto owned entities. The join
// is always a LEFT JOIN: a dangling owner must decorate with nil, not drop
// the parent row.
const ownerColumns = `a.id, a.username, a.full_name, a.avatar`

// ownerRow receives the nullable columns of a LEFT JOINed owner.
type ownerRow struct {
	id       sql.NullString
	username sql.NullString
	fullName sql.NullString
	avatar   sql.NullString
}

func (o *ownerRow) fields() []any {
	return []any{&o.id, &o.username, &o.fullName, &o.avatar}
}

func (o *ownerRow) summary() *models.OwnerSummary {
	if !o.id.Valid {
		return nil
	}
	return &models.OwnerSummary{
		ID:       o.id.String,
		Username: o.username.String,
		FullName: o.fullName.String,
		Avatar:   o.avatar.String,
	}
}
