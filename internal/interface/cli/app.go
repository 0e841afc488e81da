// Package cli implements the interactive numbered-menu interface.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/alem-hub/progress-tracker/internal/application/command"
	"github.com/alem-hub/progress-tracker/internal/application/query"
	"github.com/alem-hub/progress-tracker/internal/application/session"
	"github.com/alem-hub/progress-tracker/internal/domain/progress"
	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/internal/domain/student"
	"github.com/alem-hub/progress-tracker/pkg/logger"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal   // mockable

	errInvalidNumber = errors.New("invalid number")
)

const msgInvalidNumber = "Please enter valid numbers for scores!"

// Handlers groups the use cases the menu drives.
type Handlers struct {
	Register     *command.RegisterStudentHandler
	AddProgress  *command.AddProgressHandler
	Progress     *query.GetProgressHandler
	Statistics   *query.GetStatisticsHandler
	Feedback     *query.GetFeedbackHandler
	ListStudents *query.ListStudentsHandler
}

// Options configures an App.
type Options struct {
	In  io.Reader
	Out io.Writer

	// InputFD is the descriptor behind In. Passwords are read without echo
	// when it is a terminal. Use -1 for non-terminal input.
	InputFD int
}

// App is the menu loop.
type App struct {
	in      *bufio.Reader
	out     io.Writer
	inputFD int
	session *session.Session
	h       Handlers
	log     *logger.Logger
}

// New creates an App.
func New(opts Options, sess *session.Session, h Handlers, log *logger.Logger) *App {
	if log == nil {
		log = logger.Nop()
	}
	return &App{
		in:      bufio.NewReader(opts.In),
		out:     opts.Out,
		inputFD: opts.InputFD,
		session: sess,
		h:       h,
		log:     log.With(logger.Component("cli")),
	}
}

// Run shows menus until the user exits, input ends or ctx is done.
// It only returns an error when input cannot be read.
func (a *App) Run(ctx context.Context) error {
	a.println(bannerRule)
	a.println("   📚 STUDENT PROGRESS TRACKER 📚")
	a.println(bannerRule)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var (
			done bool
			err  error
		)
		if st, ok := a.session.Current(); ok {
			err = a.mainMenu(ctx, st)
		} else {
			done, err = a.loginMenu(ctx)
		}

		if errors.Is(err, io.EOF) {
			a.println("\n👋 Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Login portal
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) loginMenu(ctx context.Context) (bool, error) {
	a.println("\n🔐 LOGIN PORTAL")
	a.println(menuRule)
	a.println("1. Login")
	a.println("2. Register New Student")
	a.println("3. Exit")

	choice, err := a.prompt("\nEnter your choice (1-3): ")
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		return false, a.login(ctx)
	case "2":
		return false, a.register(ctx)
	case "3":
		a.println("\n👋 Goodbye!")
		return true, nil
	default:
		a.println("\n❌ Invalid choice!")
		return false, nil
	}
}

func (a *App) login(ctx context.Context) error {
	a.println("\n📝 LOGIN")
	raw, err := a.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Password: ")
	if err != nil {
		return err
	}

	err = a.session.Authenticate(ctx, student.NormalizeUsername(raw), password)
	if errors.Is(err, shared.ErrInvalidCredentials) {
		a.println("\n❌ Invalid username or password!")
		return nil
	}
	if err != nil {
		a.fail(err)
		return nil
	}

	st, _ := a.session.Current()
	a.printf("\n✅ Welcome back, %s!\n", st.FullName)

	if msg, ok := a.feedback(ctx, ""); ok {
		a.println("\n🎉 " + msg)
	}
	return nil
}

func (a *App) register(ctx context.Context) error {
	a.println("\n📋 REGISTER NEW STUDENT")
	username, err := a.prompt("Choose a username: ")
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Choose a password: ")
	if err != nil {
		return err
	}
	fullName, err := a.prompt("Full Name: ")
	if err != nil {
		return err
	}
	email, err := a.prompt("Email: ")
	if err != nil {
		return err
	}

	res, err := a.h.Register.Handle(ctx, command.RegisterStudentCommand{
		Username: student.NormalizeUsername(username).String(),
		Password: password,
		FullName: fullName,
		Email:    email,
	})
	if err != nil {
		a.fail(err)
		return nil
	}
	a.println("\n✅ " + res.Message)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Main menu
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) mainMenu(ctx context.Context, me *student.Student) error {
	admin := me.IsAdmin()

	a.println("\n👤 Logged in as: " + me.FullName)
	a.println("\n📊 MAIN MENU")
	a.println(menuRule)
	a.println("1. Add New Progress Entry")
	a.println("2. View My Progress")
	a.println("3. View My Statistics")
	a.println("4. Get Personalized Message")
	if admin {
		a.println("5. View All Students (Admin)")
		a.println("6. View Any Student's Progress (Admin)")
	}
	a.println("0. Logout")

	choice, err := a.prompt("\nEnter your choice: ")
	if err != nil {
		return err
	}

	switch {
	case choice == "1":
		return a.addProgress(ctx)
	case choice == "2":
		a.showMyProgress(ctx)
	case choice == "3":
		a.showStatistics(ctx)
	case choice == "4":
		a.println("\n💌 PERSONALIZED MESSAGE")
		a.println(wideRule)
		if msg, ok := a.feedback(ctx, ""); ok {
			a.println(msg)
		}
	case choice == "5" && admin:
		a.listStudents(ctx)
	case choice == "6" && admin:
		return a.showStudentProgress(ctx)
	case choice == "0":
		a.printf("\n👋 Goodbye, %s!\n", me.FullName)
		a.session.Logout()
	default:
		a.println("\n❌ Invalid choice!")
	}
	return nil
}

func (a *App) addProgress(ctx context.Context) error {
	a.println("\n📝 ADD PROGRESS ENTRY")
	subject, err := a.prompt("Subject: ")
	if err != nil {
		return err
	}

	cmd, err := a.readScores(subject)
	if errors.Is(err, errInvalidNumber) {
		a.println("\n❌ " + msgInvalidNumber)
		return nil
	}
	if err != nil {
		return err
	}

	res, err := a.h.AddProgress.Handle(ctx, cmd)
	if err != nil {
		a.fail(err)
		return nil
	}

	a.println("\n✅ " + res.Message)
	a.println("\n💌 Updated Message:")
	if msg, ok := a.feedback(ctx, ""); ok {
		a.println(msg)
	}
	return nil
}

// readScores reads the score, then the maximum score (blank means the default).
func (a *App) readScores(subject string) (command.AddProgressCommand, error) {
	cmd := command.NewAddProgressCommand(subject, 0)

	raw, err := a.prompt("Score obtained: ")
	if err != nil {
		return cmd, err
	}
	if cmd.Score, err = strconv.Atoi(raw); err != nil {
		return cmd, errInvalidNumber
	}

	raw, err = a.prompt(fmt.Sprintf("Maximum score (default %d): ", progress.DefaultMaxScore))
	if err != nil {
		return cmd, err
	}
	if raw != "" {
		if cmd.MaxScore, err = strconv.Atoi(raw); err != nil {
			return cmd, errInvalidNumber
		}
	}
	return cmd, nil
}

func (a *App) showMyProgress(ctx context.Context) {
	a.println("\n📈 YOUR PROGRESS")
	a.println(listRule)

	res, err := a.h.Progress.Handle(ctx, query.GetProgressQuery{})
	if err != nil {
		a.fail(err)
		return
	}
	if len(res.Lines) == 0 {
		a.println("No progress entries found.")
		return
	}
	a.println(FormatProgress(res.Lines))
}

func (a *App) showStatistics(ctx context.Context) {
	a.println("\n📊 YOUR STATISTICS")
	a.println(listRule)

	res, err := a.h.Statistics.Handle(ctx, query.GetStatisticsQuery{})
	if err != nil {
		a.fail(err)
		return
	}
	if !res.Available() {
		a.println("No statistics available yet.")
		return
	}
	a.println(FormatStatistics(res.Statistics))
}

func (a *App) listStudents(ctx context.Context) {
	a.println("\n👥 ALL STUDENTS")
	a.println(listRule)

	res, err := a.h.ListStudents.Handle(ctx, query.ListStudentsQuery{})
	if err != nil {
		a.fail(err)
		return
	}
	for _, st := range res.Students {
		a.println(FormatStudentLine(st))
	}
}

func (a *App) showStudentProgress(ctx context.Context) error {
	a.println("\n🔍 VIEW STUDENT PROGRESS")
	raw, err := a.prompt("Enter student username: ")
	if err != nil {
		return err
	}
	username := student.NormalizeUsername(raw).String()
	if username == "" {
		a.println("❌ Student not found!")
		return nil
	}

	res, err := a.h.Progress.Handle(ctx, query.GetProgressQuery{Username: username})
	if shared.IsNotFound(err) {
		a.println("❌ Student not found!")
		return nil
	}
	if err != nil {
		a.fail(err)
		return nil
	}

	a.println("\n📈 PROGRESS FOR " + res.Student.FullName)
	a.println(wideRule)
	if len(res.Lines) == 0 {
		a.println("No progress entries found for this student.")
		return nil
	}
	a.println(FormatProgress(res.Lines))

	a.println("\n💌 Personalized Message for this student:")
	if msg, ok := a.feedback(ctx, username); ok {
		a.println(msg)
	}
	return nil
}

// feedback fetches a message, printing the failure itself when it cannot.
func (a *App) feedback(ctx context.Context, username string) (string, bool) {
	res, err := a.h.Feedback.Handle(ctx, query.GetFeedbackQuery{Username: username})
	if err != nil {
		a.fail(err)
		return "", false
	}
	return res.Message, true
}

// ─────────────────────────────────────────────────────────────────────────────
// I/O helpers
// ─────────────────────────────────────────────────────────────────────────────

// fail prints a user-facing failure. Anything that is not a known domain
// outcome is also logged.
func (a *App) fail(err error) {
	var de *shared.DomainError
	if _, ok := asValidation(err); !ok && !errors.As(err, &de) {
		a.session.Logger().Error("operation failed", logger.Err(err))
	}
	a.println("\n❌ " + describe(err))
}

// prompt writes label and reads one trimmed line. It returns io.EOF once
// input is exhausted.
func (a *App) prompt(label string) (string, error) {
	a.printf("%s", label)
	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when input is a terminal.
func (a *App) promptPassword(label string) (string, error) {
	if a.inputFD < 0 || !isTerminalFunc(a.inputFD) {
		return a.prompt(label)
	}
	a.printf("%s", label)
	pwd, err := readPasswordFunc(a.inputFD)
	a.println("")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(pwd)), nil
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func asValidation(err error) (*shared.ValidationError, bool) {
	var ve *shared.ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
