package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/example/empmanager/internal/access"
	"github.com/example/empmanager/internal/application"
	"github.com/example/empmanager/internal/persistence"
	"github.com/example/empmanager/internal/query"
)

// tokenize splits a console line on whitespace. Single or double quotes group
// words and may start mid-token, so name="Ana Lima" is one argument.
func tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// parseAssignments turns key=value arguments into a map keyed by the
// lower-cased key. Repeated keys keep the last value.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		values[key] = strings.TrimSpace(value)
	}
	return values, nil
}

func unknownKeys(values map[string]string, known ...string) error {
	for key := range values {
		if !slices.Contains(known, key) {
			return fmt.Errorf("unknown field %q (known: %s)", key, strings.Join(known, ", "))
		}
	}
	return nil
}

var employeeKeys = []string{"name", "email", "role", "department", "salary", "status", "join_date", "phone"}

func employeePatchFromArgs(args []string) (application.EmployeePatch, error) {
	values, err := parseAssignments(args)
	if err != nil {
		return application.EmployeePatch{}, err
	}
	if err := unknownKeys(values, employeeKeys...); err != nil {
		return application.EmployeePatch{}, err
	}

	var patch application.EmployeePatch
	if v, ok := values["name"]; ok {
		patch.Name = &v
	}
	if v, ok := values["email"]; ok {
		patch.Email = &v
	}
	if v, ok := values["department"]; ok {
		patch.Department = &v
	}
	if v, ok := values["phone"]; ok {
		patch.Phone = &v
	}
	if v, ok := values["role"]; ok {
		role, err := access.ParseRole(v)
		if err != nil {
			return application.EmployeePatch{}, err
		}
		patch.Role = &role
	}
	if v, ok := values["status"]; ok {
		status, err := parseEmployeeStatus(v)
		if err != nil {
			return application.EmployeePatch{}, err
		}
		patch.Status = &status
	}
	if v, ok := values["salary"]; ok {
		salary, err := parseAmount("salary", v)
		if err != nil {
			return application.EmployeePatch{}, err
		}
		patch.Salary = &salary
	}
	if v, ok := values["join_date"]; ok {
		date, err := persistence.ParseDate(v)
		if err != nil {
			return application.EmployeePatch{}, err
		}
		patch.JoinDate = &date
	}
	return patch, nil
}

// employeeInputFromArgs builds an add request. The join date defaults to today.
func employeeInputFromArgs(args []string, today time.Time) (application.EmployeeInput, error) {
	patch, err := employeePatchFromArgs(args)
	if err != nil {
		return application.EmployeeInput{}, err
	}
	input := application.EmployeeInput{JoinDate: today}
	if patch.Name != nil {
		input.Name = *patch.Name
	}
	if patch.Email != nil {
		input.Email = *patch.Email
	}
	if patch.Role != nil {
		input.Role = *patch.Role
	}
	if patch.Department != nil {
		input.Department = *patch.Department
	}
	if patch.Salary != nil {
		input.Salary = *patch.Salary
	}
	if patch.Status != nil {
		input.Status = *patch.Status
	}
	if patch.JoinDate != nil {
		input.JoinDate = *patch.JoinDate
	}
	if patch.Phone != nil {
		input.Phone = *patch.Phone
	}
	return input, nil
}

func employeeFilterFromArgs(args []string) (query.EmployeeFilter, error) {
	values, err := parseAssignments(args)
	if err != nil {
		return query.EmployeeFilter{}, err
	}
	if err := unknownKeys(values, "search", "department", "role", "status"); err != nil {
		return query.EmployeeFilter{}, err
	}

	filter := query.EmployeeFilter{
		Search:     values["search"],
		Department: values["department"],
	}
	if v := values["role"]; v != "" {
		if filter.Role, err = access.ParseRole(v); err != nil {
			return query.EmployeeFilter{}, err
		}
	}
	if v := values["status"]; v != "" {
		if filter.Status, err = parseEmployeeStatus(v); err != nil {
			return query.EmployeeFilter{}, err
		}
	}
	return filter, nil
}

var departmentKeys = []string{"name", "budget", "employee_count", "average_salary"}

func departmentPatchFromArgs(args []string) (application.DepartmentPatch, error) {
	values, err := parseAssignments(args)
	if err != nil {
		return application.DepartmentPatch{}, err
	}
	if err := unknownKeys(values, departmentKeys...); err != nil {
		return application.DepartmentPatch{}, err
	}

	var patch application.DepartmentPatch
	if v, ok := values["name"]; ok {
		patch.Name = &v
	}
	if v, ok := values["budget"]; ok {
		budget, err := parseAmount("budget", v)
		if err != nil {
			return application.DepartmentPatch{}, err
		}
		patch.Budget = &budget
	}
	if v, ok := values["employee_count"]; ok {
		count, err := strconv.Atoi(v)
		if err != nil {
			return application.DepartmentPatch{}, fmt.Errorf("employee_count: %q is not a whole number", v)
		}
		patch.EmployeeCount = &count
	}
	if v, ok := values["average_salary"]; ok {
		avg, err := parseAmount("average_salary", v)
		if err != nil {
			return application.DepartmentPatch{}, err
		}
		patch.AverageSalary = &avg
	}
	return patch, nil
}

func departmentInputFromArgs(args []string) (application.DepartmentInput, error) {
	patch, err := departmentPatchFromArgs(args)
	if err != nil {
		return application.DepartmentInput{}, err
	}
	var input application.DepartmentInput
	if patch.Name != nil {
		input.Name = *patch.Name
	}
	if patch.Budget != nil {
		input.Budget = *patch.Budget
	}
	if patch.EmployeeCount != nil {
		input.EmployeeCount = *patch.EmployeeCount
	}
	if patch.AverageSalary != nil {
		input.AverageSalary = *patch.AverageSalary
	}
	return input, nil
}

// attendanceInputFromArgs builds a manual record. The date defaults to today
// and the status to Present.
func attendanceInputFromArgs(args []string, today time.Time) (application.AttendanceInput, error) {
	values, err := parseAssignments(args)
	if err != nil {
		return application.AttendanceInput{}, err
	}
	if err := unknownKeys(values, "employee", "date", "check_in", "check_out", "status", "hours"); err != nil {
		return application.AttendanceInput{}, err
	}

	input := application.AttendanceInput{
		EmployeeID: values["employee"],
		Date:       today,
		CheckIn:    values["check_in"],
		CheckOut:   values["check_out"],
	}
	if v := values["date"]; v != "" {
		if input.Date, err = persistence.ParseDate(v); err != nil {
			return application.AttendanceInput{}, err
		}
	}
	if v := values["status"]; v != "" {
		if input.Status, err = parseAttendanceStatus(v); err != nil {
			return application.AttendanceInput{}, err
		}
	}
	if v := values["hours"]; v != "" {
		if input.HoursWorked, err = parseAmount("hours", v); err != nil {
			return application.AttendanceInput{}, err
		}
	}
	return input, nil
}

func registerParamsFromArgs(args []string) (application.RegisterParams, error) {
	values, err := parseAssignments(args)
	if err != nil {
		return application.RegisterParams{}, err
	}
	if err := unknownKeys(values, "name", "email", "password", "role", "department"); err != nil {
		return application.RegisterParams{}, err
	}

	params := application.RegisterParams{
		Name:       values["name"],
		Email:      values["email"],
		Password:   values["password"],
		Department: values["department"],
	}
	if v := values["role"]; v != "" {
		if params.Role, err = access.ParseRole(v); err != nil {
			return application.RegisterParams{}, err
		}
	}
	return params, nil
}

func parseEmployeeStatus(value string) (persistence.EmployeeStatus, error) {
	for _, status := range []persistence.EmployeeStatus{persistence.StatusActive, persistence.StatusInactive} {
		if strings.EqualFold(value, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want Active or Inactive)", value)
}

func parseAttendanceStatus(value string) (persistence.AttendanceStatus, error) {
	normalized := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(value))
	for _, status := range []persistence.AttendanceStatus{
		persistence.AttendancePresent,
		persistence.AttendanceAbsent,
		persistence.AttendanceLate,
		persistence.AttendanceHalfDay,
	} {
		if strings.EqualFold(normalized, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown attendance status %q", value)
}

func parseAmount(field, value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", field, value)
	}
	return amount, nil
}

// parseMonth reads YYYY-MM; empty means the month of today.
func parseMonth(value string, today time.Time) (int, time.Month, error) {
	if value == "" {
		return today.Year(), today.Month(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM)", value)
	}
	return t.Year(), t.Month(), nil
}
