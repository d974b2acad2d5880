package main

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

func createUser(email, passwordHash string) (User, error) {
	user := User{ID: uuid.NewString(), Email: email}
	err := db.QueryRow(`
        INSERT INTO users (id, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING created_at::text`,
		user.ID, user.Email, passwordHash).Scan(&user.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return User{}, validationErr("이미 등록된 이메일입니다.")
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func userByEmail(email string) (User, string, error) {
	var user User
	var hash string
	err := db.QueryRow(`
        SELECT id, email, password_hash, created_at::text
        FROM users
        WHERE email = $1`, email).Scan(&user.ID, &user.Email, &hash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return User{}, "", nil
	}
	if err != nil {
		return User{}, "", err
	}
	return user, hash, nil
}

func userByID(id string) (*User, error) {
	var user User
	err := db.QueryRow(`
        SELECT id, email, created_at::text
        FROM users
        WHERE id = $1`, id).Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
