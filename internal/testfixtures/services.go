package testfixtures

import (
	"log/slog"
	"testing"
	"time"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
	"github.com/example/empmanager/internal/directory"
	"github.com/example/empmanager/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Workday     application.Workday
	Metrics     application.MetricsRecorder
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory whose workday starts at 09:00 UTC.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Workday:     application.Workday{Start: 9 * 60, Location: time.UTC},
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithWorkday overrides the workday used by the attendance service.
func WithWorkday(workday application.Workday) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Workday = workday
	}
}

// WithMetrics attaches recorder to every service built by the factory.
func WithMetrics(recorder application.MetricsRecorder) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Metrics = recorder
	}
}

// WithLogger sets the logger handed to every service.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// Services bundles the record services sharing one store.
type Services struct {
	Employees   *application.EmployeeService
	Departments *application.DepartmentService
	Attendance  *application.AttendanceService
}

// NewServices builds the record services over store.
func (f *ServiceFactory) NewServices(store persistence.Store) Services {
	idGen := f.IDGenerator.NextFunc()
	services := Services{
		Employees:   application.NewEmployeeServiceWithLogger(store, idGen, f.Logger),
		Departments: application.NewDepartmentServiceWithLogger(store, store, idGen, f.Logger),
		Attendance:  application.NewAttendanceServiceWithLogger(store, store, f.Workday, idGen, f.Clock.NowFunc(), f.Logger),
	}
	if f.Metrics != nil {
		services.Employees.UseMetrics(f.Metrics)
		services.Departments.UseMetrics(f.Metrics)
		services.Attendance.UseMetrics(f.Metrics)
	}
	return services
}

// NewSessionService builds a session over a directory holding the demo
// accounts. Hashing uses the light argon2id parameters.
func (f *ServiceFactory) NewSessionService(tb testing.TB) (*application.SessionService, *directory.Directory) {
	tb.Helper()

	dir, err := directory.New(directory.LightArgon2idParams, f.IDGenerator.NextFunc(), f.Logger).WithDemoAccounts()
	if err != nil {
		tb.Fatalf("failed to create demo directory: %v", err)
	}
	session := application.NewSessionServiceWithLogger(dir, dir, f.Logger)
	if f.Metrics != nil {
		session.UseMetrics(f.Metrics)
	}
	return session, dir
}

// Principal returns the principal of the demo account with role.
func Principal(role access.Role) application.Principal {
	for _, user := range directory.DemoUsers() {
		if user.Role == role {
			return user.Principal()
		}
	}
	return application.Principal{}
}
