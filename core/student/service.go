package student

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ascend-bim/gradebook/core"
)

var (
	// errors
	ErrNotFound    = errors.New("student not found")
	ErrIDExists    = errors.New("a student with this id already exists")
	ErrEmptyRoster = errors.New("the roster has no students")
)

type (
	Repository interface {
		// CreateStudent puts the student at the front of the roster.
		CreateStudent(s Student) (Student, error)
		// QueryAllStudents returns the roster in order.
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		UpdateStudent(s Student) (Student, error)
		// SetFeedback only touches Student.AIFeedback.
		SetFeedback(id, feedback string) (Student, error)
		DeleteStudentsByID(ids ...string) error
		ReplaceAll(students []Student) error
	}

	// SheetStore is the remote spreadsheet the roster is synced with. It never returns errors:
	// failures are reported through SyncResult.
	SheetStore interface {
		Push(ctx context.Context, students []Student) SyncResult
		Pull(ctx context.Context) ([]Student, SyncResult)
	}

	// Advisor writes AI feedback. It always returns displayable text.
	Advisor interface {
		StudentFeedback(ctx context.Context, s Student) string
		ClassReport(ctx context.Context, students []Student) string
	}

	ServiceInterface interface {
		Create(ns NewStudent) (Student, error)
		QueryAll() ([]Student, error)
		Query(filter *QueryFilter, orderings []core.Ordering) ([]Row, error)
		GetByID(id string) (Student, error)
		Update(id string, us UpdateStudent) (Student, error)
		Delete(ids ...string) error
		Stats() (Stats, error)
		Load(ctx context.Context) (SyncResult, error)
		Pull(ctx context.Context) (SyncResult, error)
		Push(ctx context.Context) (SyncResult, error)
		Feedback(ctx context.Context, id string) (Student, error)
		ClassReport(ctx context.Context) (string, error)
		MailClassReport(ctx context.Context, to []mail.Address) (string, error)
		ExportCSV(w io.Writer) error
		ExportXLSX(w io.Writer) error
	}

	// Service owns the roster. Views (averages, bands, stats) are derived on every read.
	Service struct {
		repo    Repository
		sheets  SheetStore
		advisor Advisor
		mailSvc core.EmailService
		logger  core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, sheets SheetStore, advisor Advisor, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		sheets:  sheets,
		advisor: advisor,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	ns.Clean()
	s := Student{
		ID:                 uuid.New().String(),
		Name:               ns.Name,
		Project:            ns.Project,
		Grades:             make(map[string]float64, len(Deliveries)),
		ParticipationBonus: ns.ParticipationBonus,
		Comment:            ns.Comment,
	}
	for _, d := range Deliveries {
		s.Grades[d.ID] = ns.Grades[d.ID]
	}
	s.Clamp()
	return svc.repo.CreateStudent(s)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

// Query returns the matching students with their derived values, sorted by `orderings`.
// Supported fields: id, name, project, average. Unknown fields are ignored.
func (svc *Service) Query(filter *QueryFilter, orderings []core.Ordering) ([]Row, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	rows := make([]Row, 0, len(students))
	for _, s := range students {
		if filter == nil || filter.Match(s) {
			rows = append(rows, NewRow(s))
		}
	}
	sortRows(rows, orderings)
	return rows, nil
}

func compareRows(a, b Row, field string) int {
	switch field {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "project":
		return strings.Compare(strings.ToLower(a.Project), strings.ToLower(b.Project))
	case "average":
		switch {
		case a.Average < b.Average:
			return -1
		case a.Average > b.Average:
			return 1
		}
	}
	return 0
}

func sortRows(rows []Row, orderings []core.Ordering) {
	if len(orderings) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range orderings {
			c := compareRows(rows[i], rows[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	us.Clean()

	if us.Name != nil {
		s.Name = *us.Name
	}
	if us.Project != nil {
		s.Project = *us.Project
	}
	for d, g := range us.Grades {
		s.Grades[d] = g
	}
	if us.ParticipationBonus.Valid {
		s.ParticipationBonus = us.ParticipationBonus
	}
	if us.Comment.Valid {
		s.Comment = us.Comment
	}
	s.Clamp()
	return svc.repo.UpdateStudent(s)
}

// Delete removes exactly the given students. Unknown ids are ignored.
func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteStudentsByID(ids...)
}

func (svc *Service) Stats() (Stats, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying students")
	}
	return ComputeStats(students), nil
}

// Load fills the roster at startup: from the spreadsheet, or from the seed when the pull fails or is empty.
func (svc *Service) Load(ctx context.Context) (SyncResult, error) {
	students, res := svc.sheets.Pull(ctx)
	if res.OK() && len(students) > 0 {
		if err := svc.repo.ReplaceAll(normalize(students)); err != nil {
			return SyncResult{}, errors.Wrap(err, "replacing roster")
		}
		res.Count = len(students)
		svc.logger.Info(fmt.Sprintf("roster loaded from spreadsheet: %d students", res.Count))
		return res, nil
	}

	seed := Seed()
	if err := svc.repo.ReplaceAll(seed); err != nil {
		return SyncResult{}, errors.Wrap(err, "seeding roster")
	}
	if res.OK() {
		res.Message = "la hoja no contiene estudiantes; se usan los datos iniciales"
	}
	res.Count = len(seed)
	svc.logger.Warn(fmt.Sprintf("roster seeded: %s", res.Message))
	return res, nil
}

// Pull replaces the roster with the spreadsheet content. An empty or failed pull keeps the current roster.
func (svc *Service) Pull(ctx context.Context) (SyncResult, error) {
	students, res := svc.sheets.Pull(ctx)
	if !res.OK() {
		return res, nil
	}
	if len(students) == 0 {
		res.Message = "la hoja no contiene estudiantes; se conserva el listado actual"
		return res, nil
	}
	if err := svc.repo.ReplaceAll(normalize(students)); err != nil {
		return SyncResult{}, errors.Wrap(err, "replacing roster")
	}
	res.Count = len(students)
	return res, nil
}

// normalize clamps pulled records and gives a fresh id to records without one or with a duplicated one.
func normalize(students []Student) []Student {
	seen := make(map[string]struct{}, len(students))
	out := make([]Student, 0, len(students))
	for _, s := range students {
		s = s.Copy()
		s.ID = strings.TrimSpace(s.ID)
		if _, dup := seen[s.ID]; s.ID == "" || dup {
			s.ID = uuid.New().String()
		}
		seen[s.ID] = struct{}{}
		s.Clamp()
		out = append(out, s)
	}
	return out
}

// Push sends the full roster to the spreadsheet.
func (svc *Service) Push(ctx context.Context) (SyncResult, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return SyncResult{}, errors.Wrap(err, "querying students")
	}
	res := svc.sheets.Push(ctx, students)
	if res.OK() {
		res.Count = len(students)
	} else {
		svc.logger.Warn(fmt.Sprintf("pushing roster: %s", res.Message))
	}
	return res, nil
}

// Feedback asks the advisor about one student and stores the answer on the record.
// The record is read before the call and written after it: the last write wins,
// and a student deleted in between yields ErrNotFound.
func (svc *Service) Feedback(ctx context.Context, id string) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	text := svc.advisor.StudentFeedback(ctx, s)
	return svc.repo.SetFeedback(id, text)
}

func (svc *Service) ClassReport(ctx context.Context) (string, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return "", errors.Wrap(err, "querying students")
	}
	if len(students) == 0 {
		return "", core.NewValidationError(ErrEmptyRoster)
	}
	return svc.advisor.ClassReport(ctx, students), nil
}

// MailClassReport sends the class report with the CSV export attached. Delivery is asynchronous.
func (svc *Service) MailClassReport(ctx context.Context, to []mail.Address) (string, error) {
	if len(to) == 0 {
		return "", core.NewValidationError(nil, core.FieldError{Field: "to", Error: "at least one recipient is required"})
	}
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return "", errors.Wrap(err, "querying students")
	}
	if len(students) == 0 {
		return "", core.NewValidationError(ErrEmptyRoster)
	}

	report := svc.advisor.ClassReport(ctx, students)

	var buf bytes.Buffer
	if err = WriteCSV(&buf, students); err != nil {
		return "", err
	}

	now := time.Now()
	msg := &core.EmailMessage{
		To:      to,
		Subject: "Reporte grupal BIM " + now.Format("2006-01-02"),
		BodyStr: report,
	}
	msg.Attach(buf.Bytes(), "notas-bim-"+now.Format("20060102")+".csv", "text/csv")
	svc.mailSvc.SendMessages(msg)
	return report, nil
}

func (svc *Service) ExportCSV(w io.Writer) error {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return WriteCSV(w, students)
}

func (svc *Service) ExportXLSX(w io.Writer) error {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return WriteXLSX(w, students)
}
