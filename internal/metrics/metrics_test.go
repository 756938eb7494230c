package metrics

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/testfixtures"
)

func TestRecorderCountsServiceActivity(t *testing.T) {
	recorder, err := New()
	require.NoError(t, err)

	factory := testfixtures.NewServiceFactory(testfixtures.WithMetrics(recorder))
	services := factory.NewServices(testfixtures.NewSeededStore(t))
	ctx := context.Background()
	hr := testfixtures.Principal(access.RoleHR)

	_, err = services.Employees.AddEmployee(ctx, hr, application.EmployeeInput{
		Name:       "Ana Lima",
		Email:      "ana@company.com",
		Department: "Sales",
		Salary:     52000,
		JoinDate:   persistence.MustDate("2024-01-02"),
	})
	require.NoError(t, err)

	_, err = services.Attendance.CheckIn(ctx, hr, "3")
	require.NoError(t, err)

	_, err = services.Departments.AddDepartment(ctx, hr, application.DepartmentInput{Name: "Legal"})
	require.ErrorIs(t, err, application.ErrAccessDenied)

	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.mutations.WithLabelValues("Employee", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.checkIns.WithLabelValues("Late")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.denials.WithLabelValues("Department", "create")))
}

func TestRecorderCountsLogins(t *testing.T) {
	recorder, err := New()
	require.NoError(t, err)

	session, _ := testfixtures.NewServiceFactory(testfixtures.WithMetrics(recorder)).NewSessionService(t)
	ctx := context.Background()

	_, err = session.Login(ctx, application.Credentials{Email: "admin@company.com", Password: "nope"})
	require.Error(t, err)
	_, err = session.Login(ctx, application.Credentials{Email: "admin@company.com", Password: "password123"})
	require.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(recorder.Registry(), "empmanager_logins_total"))
}

func TestWriteText(t *testing.T) {
	recorder, err := New()
	require.NoError(t, err)

	var empty bytes.Buffer
	require.NoError(t, recorder.WriteText(&empty))
	assert.Equal(t, "no activity recorded\n", empty.String())

	recorder.RecordCheckIn(persistence.AttendancePresent)
	recorder.RecordCheckIn(persistence.AttendancePresent)
	recorder.RecordMutation(access.EntityEmployee, access.ActionDelete)

	var out bytes.Buffer
	require.NoError(t, recorder.WriteText(&out))
	assert.Equal(t,
		"empmanager_check_ins_total{status=\"Present\"} 2\n"+
			"empmanager_mutations_total{action=\"delete\",entity=\"Employee\"} 1\n",
		out.String())
}
