package student

import (
	"errors"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Username - уникальный ключ студента. Хранится в нижнем регистре.
type Username string

// NormalizeUsername обрезает пробелы и переводит логин в нижний регистр.
// Вызывается на границе (ввод пользователя), а не внутри хранилищ.
func NormalizeUsername(s string) Username {
	return Username(strings.ToLower(strings.TrimSpace(s)))
}

// IsValid проверяет, что логин непустой и без пробельных символов.
func (u Username) IsValid() bool {
	s := string(u)
	return s != "" && !strings.ContainsAny(s, " \t\n\r")
}

// String возвращает строковое представление логина.
func (u Username) String() string {
	return string(u)
}

// Role - роль учётной записи. В документе хранится только "admin".
type Role string

const (
	// RoleStudent - обычный студент (в документе поле role отсутствует).
	RoleStudent Role = ""
	// RoleAdmin - администратор.
	RoleAdmin Role = "admin"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student - учётная запись студента.
type Student struct {
	// Username - уникальный логин (ключ документа).
	Username Username

	// PasswordDigest - односторонний хеш пароля.
	PasswordDigest string

	// FullName - полное имя.
	FullName string

	// Email - адрес почты (не проверяется на уникальность).
	Email string

	// Role - RoleAdmin для администраторов.
	Role Role

	// CreatedAt - время регистрации (только для реляционного хранилища).
	CreatedAt time.Time
}

// NewStudentParams - параметры для создания студента.
type NewStudentParams struct {
	Username       Username
	PasswordDigest string
	FullName       string
	Email          string
	Admin          bool
}

// Ошибки конструктора.
var (
	ErrInvalidUsername = errors.New("student: invalid username")
	ErrEmptyDigest     = errors.New("student: password digest is empty")
)

// NewStudent создаёт нового студента. Регистрация всегда создаёт не-админа,
// флаг Admin используется только фикстурами.
func NewStudent(p NewStudentParams) (*Student, error) {
	if !p.Username.IsValid() {
		return nil, ErrInvalidUsername
	}
	if p.PasswordDigest == "" {
		return nil, ErrEmptyDigest
	}

	role := RoleStudent
	if p.Admin {
		role = RoleAdmin
	}

	return &Student{
		Username:       p.Username,
		PasswordDigest: p.PasswordDigest,
		FullName:       p.FullName,
		Email:          p.Email,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// IsAdmin возвращает true для учётной записи администратора.
func (s *Student) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// FirstName возвращает имя для персональных сообщений.
func (s *Student) FirstName() string {
	if name := FirstName(s.FullName); name != "" {
		return name
	}
	return s.Username.String()
}

// FirstName возвращает первое слово полного имени или пустую строку.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
