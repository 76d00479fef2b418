package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine/internal/adapters"
)

var userColumns = []any{"id", "name", "email", "password_hash", "university_id", "role", "created_at"}

func scanUser(rows adapters.DBRows) (librarystore.User, error) {
	var user librarystore.User
	var id string

	err := rows.Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &user.UniversityID, &user.Role, &user.CreatedAt)
	if err != nil {
		return librarystore.User{}, err
	}

	if err = parseUUIDs(uuidTarget{raw: id, target: &user.ID}); err != nil {
		return librarystore.User{}, err
	}

	user.CreatedAt = user.CreatedAt.UTC()

	return user, nil
}

// InsertUser stores a new user. Duplicates yield librarystore.ErrDuplicateEmail or
// librarystore.ErrDuplicateUniversityID.
func (e executor) InsertUser(ctx context.Context, user librarystore.User) error {
	insertStmt := e.dialect.goqu().
		Insert(tableUsers).
		Rows(goqu.Record{
			"id":            user.ID.String(),
			"name":          user.Name,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"university_id": user.UniversityID,
			"role":          user.Role,
			"created_at":    dbTime(user.CreatedAt),
		})

	_, err := e.exec(ctx, "insert_user", insertStmt)

	return err
}

// UserByEmail looks up a user by the normalized email address.
func (e executor) UserByEmail(ctx context.Context, email string) (librarystore.User, error) {
	return e.userWhere(ctx, "user_by_email", goqu.C("email").Eq(email))
}

func (e executor) UserByID(ctx context.Context, userID uuid.UUID) (librarystore.User, error) {
	return e.userWhere(ctx, "user_by_id", goqu.C("id").Eq(userID.String()))
}

func (e executor) userWhere(ctx context.Context, operation string, condition exp.Expression) (librarystore.User, error) {
	var user librarystore.User

	selectStmt := e.dialect.goqu().From(tableUsers).Select(userColumns...).Where(condition)

	err := e.queryOne(ctx, operation, selectStmt, func(rows adapters.DBRows) error {
		var scanErr error
		user, scanErr = scanUser(rows)
		return scanErr
	})

	return user, err
}

// ListUsers returns all users sorted by name.
func (e executor) ListUsers(ctx context.Context) ([]librarystore.User, error) {
	selectStmt := e.dialect.goqu().
		From(tableUsers).
		Select(userColumns...).
		Order(goqu.C("name").Asc(), goqu.C("id").Asc())

	users := make([]librarystore.User, 0)

	err := e.queryRows(ctx, "list_users", selectStmt, func(rows adapters.DBRows) error {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return scanErr
		}

		users = append(users, user)

		return nil
	})

	return users, err
}
