// Package student содержит доменную модель студента (учётную запись).
//
// Пакет определяет:
//
//   - Сущность Student: логин, дайджест пароля, полное имя, email, флаг администратора
//   - Интерфейс Repository (хранилище учётных данных)
//   - Интерфейс PasswordHasher (односторонний хеш пароля)
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейсы реализуются в infrastructure
//
// # Основные операции
//
// Создание студента при регистрации:
//
//	digest, err := hasher.Hash("secret")
//	s, err := NewStudent(NewStudentParams{
//	    Username:       "faiza",
//	    PasswordDigest: digest,
//	    FullName:       "Faiza Rahman",
//	    Email:          "faiza@email.com",
//	})
//
// Имя для персонального сообщения:
//
//	s.FirstName() // "Faiza"
package student
