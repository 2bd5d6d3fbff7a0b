// Package memstore предоставляет реализацию репозиториев ссылок и переходов для in-memory хранилища.
//
// Все методы репозиториев преобразуют внутренние ошибки хранилища в общие ошибки уровня репозитория
// с помощью convertErrorType:
//   - memory.ErrDuplicateKey -> repositories.ErrDuplicateKey
//   - memory.ErrNotFound -> repositories.ErrNotFound
//   - другие ошибки -> repositories.ErrUnknown
//
// Уникальность короткого кода обеспечивает отдельная коллекция Codes (код -> id ссылки):
// вставка в нее без перезаписи атомарна.
package memstore
