package database

import (
	"context"
	"fmt"
	"log"

	"github.com/AhmadFauzanZW/wilopo-cargo/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// New создаёт пул соединений и подготавливает схему.
// Пул возвращается вызывающему и передаётся в сторы явно – никаких глобальных переменных.
func New(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("✅ Подключение к PostgreSQL установлено")

	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := seedUsers(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	return pool, nil
}

func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
		log.Println("🛑 Соединение с PostgreSQL закрыто")
	}
}

func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// pgcrypto для gen_random_uuid()
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(100) NOT NULL,
			company_name VARCHAR(100),
			phone VARCHAR(30),
			role VARCHAR(20) DEFAULT 'USER',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		);
	`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`); err != nil {
		return err
	}
	log.Println("✅ Таблица users готова")

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS shipments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			tracking_number VARCHAR(20) UNIQUE NOT NULL,
			origin VARCHAR(255) NOT NULL,
			destination VARCHAR(255) NOT NULL,
			status VARCHAR(30) NOT NULL DEFAULT 'PICKED_UP',
			service_type VARCHAR(10) DEFAULT 'LCL',
			weight DECIMAL(10,2) NOT NULL,
			volume DECIMAL(10,3) NOT NULL,
			estimated_cost DECIMAL(12,2),
			estimated_arrival TIMESTAMP,
			sender_name VARCHAR(100),
			sender_address TEXT,
			receiver_name VARCHAR(100),
			receiver_address TEXT,
			receiver_phone VARCHAR(30),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		);
	`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_shipments_user ON shipments(user_id);`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_shipments_status ON shipments(status);`); err != nil {
		return err
	}
	log.Println("✅ Таблица shipments готова")

	// История статусов: append-only, события никогда не редактируются.
	// seq разруливает одинаковые timestamp при сортировке.
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS status_events (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			seq BIGSERIAL,
			shipment_id UUID NOT NULL REFERENCES shipments(id) ON DELETE CASCADE,
			status VARCHAR(30) NOT NULL,
			description TEXT,
			location VARCHAR(255),
			timestamp TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_status_events_shipment ON status_events(shipment_id, timestamp, seq);`); err != nil {
		return err
	}
	log.Println("✅ Таблица status_events готова")

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			shipment_id UUID NOT NULL REFERENCES shipments(id) ON DELETE CASCADE,
			document_type VARCHAR(30) DEFAULT 'OTHER',
			file_url VARCHAR(500) NOT NULL,
			original_name VARCHAR(255) NOT NULL,
			file_size BIGINT DEFAULT 0,
			uploaded_at TIMESTAMP DEFAULT NOW()
		);
	`); err != nil {
		return err
	}
	log.Println("✅ Таблица documents готова")

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(30) NOT NULL,
			title VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			related_id UUID,
			is_read BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT NOW()
		);
	`); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC);`); err != nil {
		return err
	}
	log.Println("✅ Таблица notifications готова")

	return nil
}

// seedUsers создаёт админа и демо-пользователя, если их ещё нет
func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	seed := []struct {
		email    string
		password string
		fullName string
		company  string
		phone    string
		role     string
	}{
		{"admin@wilopocargo.com", "admin123", "Admin User", "Wilopo Cargo", "+62 811 1111 1111", "ADMIN"},
		{"demo@wilopocargo.com", "password123", "Demo User", "Demo Trading Company", "+62 812 3456 7890", "USER"},
	}

	for _, u := range seed {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, u.email).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO users (email, password_hash, full_name, company_name, phone, role)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.email, string(hash), u.fullName, u.company, u.phone, u.role)
		if err != nil {
			return err
		}
		log.Printf("✅ Создан пользователь %s (%s)", u.email, u.role)
	}
	return nil
}
