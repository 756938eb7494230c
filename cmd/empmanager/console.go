package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
	"github.com/example/empmanager/internal/query"
)

const prompt = "empmanager> "

// console runs one session over the app's store.
type console struct {
	app *app
	out io.Writer
}

func newConsole(a *app, out io.Writer) *console {
	return &console{app: a, out: out}
}

// Run reads commands from in until quit, EOF, or ctx is cancelled. A
// cancellation while waiting for input returns at once; the pending read is
// abandoned.
func (c *console) Run(ctx context.Context, in io.Reader) error {
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, scanErr := readLines(readCtx, in)
	c.println("EmpManager console. Type 'help' for commands.")

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(c.out, prompt)

		var (
			raw string
			ok  bool
		)
		select {
		case <-ctx.Done():
			c.println("")
			return nil
		case raw, ok = <-lines:
		}
		if !ok {
			c.println("")
			if ctx.Err() != nil {
				return nil
			}
			return <-scanErr
		}

		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args, err := tokenize(line)
		if err != nil {
			c.printf("Error: %v\n", err)
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			c.println("Goodbye.")
			return nil
		}

		if err := c.execute(ctx, args); err != nil {
			c.renderError(err)
		}
	}
}

// readLines scans in on its own goroutine. The error channel receives the
// scanner's error before lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		defer close(lines)
		defer func() { scanErr <- scanner.Err() }()
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines, scanErr
}

func (c *console) execute(ctx context.Context, args []string) error {
	name, rest := strings.ToLower(args[0]), args[1:]

	switch name {
	case "help":
		c.help()
		return nil
	case "login":
		return c.login(ctx, rest)
	case "register":
		return c.register(ctx, rest)
	}

	if _, err := c.app.session.RequireUser(); err != nil {
		if isKnownCommand(name) {
			return err
		}
	}

	switch name {
	case "logout":
		c.app.session.Logout(ctx)
		c.println("Logged out.")
		return nil
	case "whoami":
		return c.whoami()
	case "pages":
		return c.pages()
	case "dashboard":
		return c.dashboard(ctx)
	case "employees":
		return c.listEmployees(ctx, rest)
	case "employee":
		return c.employee(ctx, rest)
	case "departments":
		return c.listDepartments(ctx)
	case "department":
		return c.department(ctx, rest)
	case "attendance":
		return c.attendance(ctx, rest)
	case "checkin":
		return c.checkIn(ctx, rest)
	case "checkout":
		return c.checkOut(ctx, rest)
	case "stats":
		return c.stats(ctx)
	case "metrics":
		return c.app.metrics.WriteText(c.out)
	case "export":
		return c.export(ctx, rest)
	}
	return fmt.Errorf("unknown command %q (type 'help')", args[0])
}

var commandHelp = [][2]string{
	{"help", "show this help"},
	{"login <email> <password>", "start a session"},
	{"register name=.. email=.. password=.. [role=..] [department=..]", "create an account and log in"},
	{"logout", "end the session"},
	{"whoami", "show the current user"},
	{"pages", "list the pages and actions available to you"},
	{"dashboard", "headline figures"},
	{"employees [search=..] [department=..] [role=..] [status=..]", "list employees"},
	{"employee add|update <id>|delete <id>|show <id> [field=value..]", "manage one employee"},
	{"departments", "list departments with budget utilization"},
	{"department add|update <id>|delete <id>|show <id> [field=value..]", "manage one department"},
	{"attendance [list|calendar [YYYY-MM]|add field=value..|duplicates]", "attendance views"},
	{"checkin [<employee id>]", "check an employee in, or show the quick check-in board"},
	{"checkout <employee id>", "check an employee out"},
	{"stats", "attendance totals by status"},
	{"metrics", "activity counters for this process"},
	{"export <employees|attendance> <path>", "write an XLSX workbook"},
	{"quit", "leave the console"},
}

func isKnownCommand(name string) bool {
	for _, entry := range commandHelp {
		if strings.Fields(entry[0])[0] == name {
			return true
		}
	}
	return false
}

func (c *console) help() {
	w := newTable(c.out)
	for _, entry := range commandHelp {
		fmt.Fprintf(w, "  %s\t%s\n", entry[0], entry[1])
	}
	_ = w.Flush()
}

func (c *console) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("login <email> <password>")
	}
	user, err := c.app.session.Login(ctx, application.Credentials{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	c.printf("Logged in as %s (%s).\n", user.Name, user.Role)
	return nil
}

func (c *console) register(ctx context.Context, args []string) error {
	params, err := registerParamsFromArgs(args)
	if err != nil {
		return err
	}
	user, err := c.app.session.Register(ctx, params)
	if err != nil {
		return err
	}
	c.printf("Registered and logged in as %s (%s).\n", user.Name, user.Role)
	return nil
}

func (c *console) whoami() error {
	user, err := c.app.session.RequireUser()
	if err != nil {
		return err
	}
	c.printf("%s <%s> %s", user.Name, user.Email, user.Role)
	if user.Department != "" {
		c.printf(", %s", user.Department)
	}
	c.println("")
	return nil
}

func (c *console) pages() error {
	role := c.role()
	perms := c.app.policy.Permissions(role)

	pages := make([]string, 0, len(perms.Pages))
	for _, page := range perms.Pages {
		pages = append(pages, string(page))
	}
	c.printf("Pages:    %s\n", strings.Join(pages, ", "))

	var manage []string
	for _, entity := range []access.Entity{access.EntityEmployee, access.EntityDepartment} {
		if perms.Manage[entity] {
			manage = append(manage, string(entity))
		}
	}
	if len(manage) == 0 {
		manage = []string{"nothing"}
	}
	c.printf("Manage:   %s\n", strings.Join(manage, ", "))
	c.printf("Check-in: %s\n", yesNo(perms.CheckIn))
	return nil
}

func (c *console) dashboard(ctx context.Context) error {
	metrics, err := c.app.dashboard.Dashboard(ctx, c.principal())
	if err != nil {
		return err
	}
	user, _ := c.app.session.CurrentUser()
	renderDashboard(c.out, user.Name, metrics)
	return nil
}

func (c *console) listEmployees(ctx context.Context, args []string) error {
	if err := c.checkPage(access.PageEmployees); err != nil {
		return err
	}
	filter, err := employeeFilterFromArgs(args)
	if err != nil {
		return err
	}
	employees, err := c.app.employees.ListEmployees(ctx, c.principal(), filter)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		c.println("No employees match.")
		return nil
	}
	renderEmployees(c.out, employees)
	return nil
}

func (c *console) employee(ctx context.Context, args []string) error {
	if err := c.checkPage(access.PageEmployees); err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("employee add|update <id>|delete <id>|show <id> [field=value..]")
	}
	principal := c.principal()

	switch strings.ToLower(args[0]) {
	case "add":
		input, err := employeeInputFromArgs(args[1:], c.app.attendance.Today())
		if err != nil {
			return err
		}
		created, err := c.app.employees.AddEmployee(ctx, principal, input)
		if err != nil {
			return err
		}
		c.printf("Added employee %s (%s).\n", created.Name, created.ID)
		return nil
	case "update":
		if len(args) < 3 {
			return usageError("employee update <id> field=value..")
		}
		patch, err := employeePatchFromArgs(args[2:])
		if err != nil {
			return err
		}
		updated, err := c.app.employees.UpdateEmployee(ctx, principal, args[1], patch)
		if err != nil {
			return err
		}
		if updated.ID == "" {
			c.printf("No employee with id %s; nothing changed.\n", args[1])
			return nil
		}
		c.printf("Updated employee %s (%s).\n", updated.Name, updated.ID)
		return nil
	case "delete":
		if len(args) != 2 {
			return usageError("employee delete <id>")
		}
		if err := c.app.employees.DeleteEmployee(ctx, principal, args[1]); err != nil {
			return err
		}
		c.printf("Deleted employee %s.\n", args[1])
		return nil
	case "show":
		if len(args) != 2 {
			return usageError("employee show <id>")
		}
		employee, err := c.app.employees.GetEmployee(ctx, principal, args[1])
		if err != nil {
			return err
		}
		renderEmployee(c.out, employee)
		return nil
	}
	return fmt.Errorf("unknown employee action %q", args[0])
}

func (c *console) listDepartments(ctx context.Context) error {
	if err := c.checkPage(access.PageDepartments); err != nil {
		return err
	}
	views, err := c.app.departments.ListDepartments(ctx, c.principal())
	if err != nil {
		return err
	}
	if len(views) == 0 {
		c.println("No departments.")
		return nil
	}
	renderDepartments(c.out, views)
	return nil
}

func (c *console) department(ctx context.Context, args []string) error {
	if err := c.checkPage(access.PageDepartments); err != nil {
		return err
	}
	if len(args) == 0 {
		return usageError("department add|update <id>|delete <id>|show <id> [field=value..]")
	}
	principal := c.principal()

	switch strings.ToLower(args[0]) {
	case "add":
		input, err := departmentInputFromArgs(args[1:])
		if err != nil {
			return err
		}
		created, err := c.app.departments.AddDepartment(ctx, principal, input)
		if err != nil {
			return err
		}
		c.printf("Added department %s (%s).\n", created.Name, created.ID)
		return nil
	case "update":
		if len(args) < 3 {
			return usageError("department update <id> field=value..")
		}
		patch, err := departmentPatchFromArgs(args[2:])
		if err != nil {
			return err
		}
		updated, err := c.app.departments.UpdateDepartment(ctx, principal, args[1], patch)
		if err != nil {
			return err
		}
		if updated.ID == "" {
			c.printf("No department with id %s; nothing changed.\n", args[1])
			return nil
		}
		c.printf("Updated department %s (%s).\n", updated.Name, updated.ID)
		return nil
	case "delete":
		if len(args) != 2 {
			return usageError("department delete <id>")
		}
		if err := c.app.departments.DeleteDepartment(ctx, principal, args[1]); err != nil {
			return err
		}
		c.printf("Deleted department %s.\n", args[1])
		return nil
	case "show":
		if len(args) != 2 {
			return usageError("department show <id>")
		}
		view, err := c.app.departments.GetDepartment(ctx, principal, args[1])
		if err != nil {
			return err
		}
		renderDepartments(c.out, []application.DepartmentView{view})
		return nil
	}
	return fmt.Errorf("unknown department action %q", args[0])
}

func (c *console) attendance(ctx context.Context, args []string) error {
	if err := c.checkPage(access.PageAttendance); err != nil {
		return err
	}
	principal := c.principal()

	action := "list"
	if len(args) > 0 {
		action = strings.ToLower(args[0])
		args = args[1:]
	}

	switch action {
	case "list":
		records, err := c.app.attendance.ListAttendance(ctx, principal)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			c.println("No attendance records.")
			return nil
		}
		names, err := c.employeeNames(ctx)
		if err != nil {
			return err
		}
		renderAttendance(c.out, query.Recent(records), names)
		return nil
	case "calendar":
		var month string
		if len(args) > 0 {
			month = args[0]
		}
		year, m, err := parseMonth(month, c.app.attendance.Today())
		if err != nil {
			return err
		}
		days, err := c.app.attendance.Calendar(ctx, principal, year, m)
		if err != nil {
			return err
		}
		renderCalendar(c.out, year, m, days)
		return nil
	case "add":
		input, err := attendanceInputFromArgs(args, c.app.attendance.Today())
		if err != nil {
			return err
		}
		record, err := c.app.attendance.AddAttendance(ctx, principal, input)
		if err != nil {
			return err
		}
		c.printf("Recorded %s for %s on %s.\n", record.Status, record.EmployeeID, formatDate(record.Date))
		return nil
	case "duplicates":
		duplicates, err := c.app.attendance.Duplicates(ctx, principal)
		if err != nil {
			return err
		}
		if len(duplicates) == 0 {
			c.println("No employee has more than one record on a day.")
			return nil
		}
		for _, d := range duplicates {
			c.printf("%s on %s: records %s\n", d.EmployeeID, formatDate(d.Date), strings.Join(d.RecordIDs, ", "))
		}
		return nil
	}
	return fmt.Errorf("unknown attendance action %q", action)
}

func (c *console) checkIn(ctx context.Context, args []string) error {
	if err := c.checkPage(access.PageAttendance); err != nil {
		return err
	}
	if len(args) == 0 {
		board, err := c.app.attendance.QuickCheckIn(ctx, c.principal(), c.app.cfg.QuickCheckInLimit)
		if err != nil {
			return err
		}
		renderCheckInBoard(c.out, board)
		return nil
	}

	record, err := c.app.attendance.CheckIn(ctx, c.principal(), args[0])
	if err != nil {
		return err
	}
	c.printf("Checked in %s at %s (%s).\n", record.EmployeeID, record.CheckIn, record.Status)
	return nil
}

func (c *console) checkOut(ctx context.Context, args []string) error {
	if err := c.checkPage(access.PageAttendance); err != nil {
		return err
	}
	if len(args) != 1 {
		return usageError("checkout <employee id>")
	}
	record, err := c.app.attendance.CheckOut(ctx, c.principal(), args[0])
	if err != nil {
		return err
	}
	c.printf("Checked out %s at %s after %.2f hours.\n", record.EmployeeID, record.CheckOut, record.HoursWorked)
	return nil
}

func (c *console) stats(ctx context.Context) error {
	if err := c.checkPage(access.PageAttendance); err != nil {
		return err
	}
	stats, err := c.app.attendance.Stats(ctx, c.principal())
	if err != nil {
		return err
	}
	c.printf("Total: %d  Present: %d  Late: %d  Absent: %d  Half Day: %d\n",
		stats.Total, stats.Present, stats.Late, stats.Absent, stats.HalfDay)
	return nil
}

func (c *console) export(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("export <employees|attendance> <path>")
	}
	if err := c.app.exportFile(ctx, c.role(), strings.ToLower(args[0]), args[1]); err != nil {
		return err
	}
	c.printf("Wrote %s.\n", args[1])
	return nil
}

// employeeNames resolves employee ids for display. Attendance is visible to
// every role, so names are read from the store rather than the
// staff-only employee listing.
func (c *console) employeeNames(ctx context.Context) (map[string]string, error) {
	employees, err := c.app.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names, nil
}

func (c *console) principal() application.Principal {
	return c.app.session.Principal()
}

func (c *console) role() access.Role {
	return c.principal().Role
}

func (c *console) checkPage(page access.Page) error {
	return c.app.policy.CheckPage(c.role(), page)
}

func (c *console) renderError(err error) {
	var (
		vErr   *application.ValidationError
		denied *access.DeniedError
	)
	switch {
	case isDenied(err):
		c.println("Access Denied")
		if errors.As(err, &denied) && denied.Page == "" {
			c.printf("You don't have permission to %s %s records.\n", strings.ReplaceAll(string(denied.Action), "_", " "), strings.ToLower(string(denied.Entity)))
			return
		}
		c.println("You don't have permission to access this page.")
	case errors.As(err, &vErr):
		c.println("Validation failed:")
		for _, field := range vErr.Fields() {
			c.printf("  %s: %s\n", field, vErr.FieldErrors[field])
		}
	case errors.Is(err, application.ErrNotAuthenticated):
		c.println("Not logged in. Use: login <email> <password>")
	case errors.Is(err, application.ErrInvalidCredentials):
		c.println("Invalid email or password.")
	case errors.Is(err, application.ErrNotFound):
		c.println("Not found.")
	case errors.Is(err, application.ErrAlreadyExists):
		c.println("Already exists.")
	default:
		c.printf("Error: %s\n", strings.TrimPrefix(err.Error(), "application: "))
	}
}

func (c *console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

type usageError string

func (u usageError) Error() string {
	return "usage: " + string(u)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
