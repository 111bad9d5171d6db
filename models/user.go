package models

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound возвращается, когда запись не существует или принадлежит другому пользователю
var ErrNotFound = errors.New("not found")

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	FullName    string    `json:"full_name"`
	CompanyName *string   `json:"company_name"`
	Phone       *string   `json:"phone"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserStore – доступ к таблице users; пул передаётся явно
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, email, password_hash, full_name, company_name, phone, role, created_at, updated_at
		  FROM users WHERE email = $1`
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FullName, &user.CompanyName,
		&user.Phone, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, email, password, fullName, companyName, phone string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user User
	query := `INSERT INTO users (email, password_hash, full_name, company_name, phone, role, created_at, updated_at)
		  VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), 'USER', NOW(), NOW())
		  RETURNING id, email, full_name, company_name, phone, role, created_at, updated_at`
	err = s.pool.QueryRow(ctx, query, email, hash, fullName, companyName, phone).Scan(
		&user.ID, &user.Email, &user.FullName, &user.CompanyName, &user.Phone,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	query := `SELECT id, email, full_name, company_name, phone, role, created_at, updated_at
		  FROM users WHERE id = $1`
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FullName, &user.CompanyName, &user.Phone,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FirstUserID нужен только для режима SkipAuth
func (s *UserStore) FirstUserID(ctx context.Context) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `SELECT id FROM users ORDER BY created_at LIMIT 1`).Scan(&id)
	return id, err
}

// UserWithCount – пользователь со счётчиком отправлений (админ-список)
type UserWithCount struct {
	User
	ShipmentCount int `json:"shipment_count"`
}

func (s *UserStore) ListWithShipmentCounts(ctx context.Context) ([]UserWithCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.email, u.full_name, u.company_name, u.phone, u.role, u.created_at, u.updated_at,
		       COUNT(sh.id)
		FROM users u
		LEFT JOIN shipments sh ON sh.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserWithCount
	for rows.Next() {
		var u UserWithCount
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FullName, &u.CompanyName, &u.Phone,
			&u.Role, &u.CreatedAt, &u.UpdatedAt, &u.ShipmentCount,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateRole меняет роль пользователя (USER/ADMIN)
func (s *UserStore) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	var user User
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2
		  RETURNING id, email, full_name, company_name, phone, role, created_at, updated_at`
	err := s.pool.QueryRow(ctx, query, role, id).Scan(
		&user.ID, &user.Email, &user.FullName, &user.CompanyName, &user.Phone,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
