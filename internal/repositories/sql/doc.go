// Package sql предоставляет реализацию репозиториев ссылок и переходов поверх gorm
// (PostgreSQL и SQLite).
//
// Все методы репозиториев преобразуют ошибки драйверов в общие ошибки уровня репозитория
// с помощью convertErrorType:
//   - gorm.ErrDuplicatedKey, pgconn 23505 -> repositories.ErrDuplicateKey
//   - gorm.ErrRecordNotFound -> repositories.ErrNotFound
//   - другие ошибки -> repositories.ErrUnknown
package sql
