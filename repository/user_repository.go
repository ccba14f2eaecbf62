package repository

import (
	"database/sql"
	"sms-relay-api/model"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id string) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdateUserRole(userID string, newRole string) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (id, nick_name, email, password, role, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	return r.DB.QueryRow(query, user.ID, user.NickName, user.Email, user.Password, user.Role, user.Status).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, nick_name, email, password, role, status, deleted, created_at, updated_at FROM users WHERE email=$1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.NickName, &user.Email, &user.Password, &user.Role, &user.Status, &user.Deleted, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, nick_name, email, password, role, status, deleted, created_at, updated_at FROM users WHERE id=$1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.NickName, &user.Email, &user.Password, &user.Role, &user.Status, &user.Deleted, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	query := `SELECT id, nick_name, email, role, status, deleted, created_at, updated_at FROM users WHERE deleted = FALSE ORDER BY created_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.NickName, &u.Email, &u.Role, &u.Status, &u.Deleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateUserRole(userID string, newRole string) error {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.DB.Exec(query, newRole, userID)
	return err
}
