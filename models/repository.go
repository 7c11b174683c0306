package models

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	ListClients() ([]Client, error)
	CreateClient(client *Client) error
	GetClientByID(id string) (*Client, error)
	UpdateClient(client *Client) error
	DeleteClient(id string) error
	Ping() error
	Close() error
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository() (*PostgresRepository, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Client{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return NewRepositoryFromDB(db), nil
}

// NewRepositoryFromDB wraps an already opened gorm handle without migrating.
func NewRepositoryFromDB(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListClients() ([]Client, error) {
	var clients []Client
	if err := r.db.Order("name").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient assigns a fresh identifier, overwriting anything the caller set.
func (r *PostgresRepository) CreateClient(client *Client) error {
	client.ID = uuid.NewString()
	return r.db.Create(client).Error
}

func (r *PostgresRepository) GetClientByID(id string) (*Client, error) {
	var client Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *PostgresRepository) UpdateClient(client *Client) error {
	result := r.db.Model(&Client{}).Where("id = ?", client.ID).
		Select("*").Omit("id").Updates(client)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteClient(id string) error {
	result := r.db.Where("id = ?", id).Delete(&Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
