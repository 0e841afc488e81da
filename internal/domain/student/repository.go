package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем учётных данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository - хранилище учётных данных (username -> Student).
type Repository interface {
	// Get возвращает студента по логину (точное совпадение).
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	Get(ctx context.Context, username Username) (*Student, error)

	// Create добавляет студента и сохраняет документ целиком.
	// Возвращает shared.ErrStudentAlreadyExists, если логин занят.
	Create(ctx context.Context, s *Student) error

	// List возвращает всех студентов, отсортированных по логину.
	List(ctx context.Context) ([]*Student, error)

	// Exists проверяет, занят ли логин.
	Exists(ctx context.Context, username Username) (bool, error)
}

// PasswordHasher - односторонний хеш пароля.
type PasswordHasher interface {
	// Hash возвращает дайджест пароля.
	Hash(password string) (string, error)

	// Verify сравнивает пароль с сохранённым дайджестом.
	Verify(digest, password string) bool
}
