package feedback

import "context"

// Cache - необязательный кэш готовых сообщений и статистики.
// Реализация находится в infrastructure/persistence/redis.
// Промах кэша - это (zero, false, nil), а не ошибка.
type Cache interface {
	GetMessage(ctx context.Context, username string) (string, bool, error)
	SetMessage(ctx context.Context, username, message string) error

	GetStatistics(ctx context.Context, username string) (*Statistics, bool, error)
	SetStatistics(ctx context.Context, username string, stats *Statistics) error

	// Invalidate удаляет всё закэшированное для студента.
	// Вызывается после каждой новой записи в журнале.
	Invalidate(ctx context.Context, username string) error
}
