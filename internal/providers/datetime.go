package providers

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// DateTimeOps contributes calendar operations. Dates and datetimes share
// one underlying value; operations that only make sense with a time of day
// accept either and treat a bare date as midnight.
type DateTimeOps struct{}

func (p *DateTimeOps) Name() string { return "DateTime" }

func (p *DateTimeOps) Operations() []*operation.Operation {
	return []*operation.Operation{
		opNow(), opToday(), opUtcNow(), opDateOf(), opDateTimeOf(),
		opParseDateTime(),
		opAddDays(), opAddHours(), opAddMinutes(), opAddMonths(), opAddYears(),
		opDaysBetween(), opYear(), opMonth(), opDay(), opHour(), opMinute(),
		opSecond(), opDayOfWeek(), opDayOfYear(), opWeekOfYear(),
		opFormatDateTime(), opIsLeapYear(), opDaysInMonth(),
	}
}

func datetimeArg(name string, v object.Object) (*object.DateTime, *object.RuntimeError) {
	if dt, ok := v.(*object.DateTime); ok {
		return dt, nil
	}
	return nil, object.NewError(object.TypeError, "%s must be a date or datetime, got %s", name, v.TypeName())
}

// truncated strips the time of day.
func truncated(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func opNow() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Now",
		Name:        "Now",
		Description: "Returns the current datetime",
		Category:    "DateTime/Current",
		Execute: func(_ []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return &object.DateTime{Value: time.Now()}
		},
	}
}

func opToday() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Today",
		Name:        "Today",
		Description: "Returns the current date",
		Category:    "DateTime/Current",
		Execute: func(_ []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return &object.DateTime{Value: truncated(time.Now()), DateOnly: true}
		},
	}
}

func opUtcNow() *operation.Operation {
	return &operation.Operation{
		Identifier:  "UtcNow",
		Name:        "UTC Now",
		Description: "Returns the current UTC datetime",
		Category:    "DateTime/Current",
		Execute: func(_ []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return &object.DateTime{Value: time.Now().UTC()}
		},
	}
}

// validYMD rejects component combinations the calendar cannot represent.
// time.Date would silently normalize them instead.
func validYMD(year, month, day int64) *object.RuntimeError {
	if month < 1 || month > 12 {
		return object.NewError(object.TypeError, "month must be in 1..12, got %d", month)
	}
	if day < 1 || day > int64(daysInMonth(int(year), int(month))) {
		return object.NewError(object.TypeError, "day is out of range for month, got %d", day)
	}
	return nil
}

func opDateOf() *operation.Operation {
	return &operation.Operation{
		Identifier:  "DateOf",
		Name:        "Create Date",
		Description: "Creates a date from year, month, day",
		Category:    "DateTime/Creation",
		Required: []operation.ArgInfo{
			arg("year", "Year"),
			arg("month", "Month (1-12)"),
			arg("day", "Day of month"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			year, yerr := integer("year", args[0])
			if yerr != nil {
				return yerr
			}
			month, merr := integer("month", args[1])
			if merr != nil {
				return merr
			}
			day, derr := integer("day", args[2])
			if derr != nil {
				return derr
			}
			if verr := validYMD(year, month, day); verr != nil {
				return verr
			}
			t := time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.Local)
			return &object.DateTime{Value: t, DateOnly: true}
		},
	}
}

func opDateTimeOf() *operation.Operation {
	return &operation.Operation{
		Identifier:  "DateTimeOf",
		Name:        "Create DateTime",
		Description: "Creates a datetime from components",
		Category:    "DateTime/Creation",
		Required: []operation.ArgInfo{
			arg("year", "Year"),
			arg("month", "Month (1-12)"),
			arg("day", "Day of month"),
		},
		Optional: []operation.ArgInfo{
			arg("hour", "Hour (0-23)"),
			arg("minute", "Minute (0-59)"),
			arg("second", "Second (0-59)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			parts := make([]int64, 6)
			names := []string{"year", "month", "day", "hour", "minute", "second"}
			for i := range args {
				v, err := integer(names[i], args[i])
				if err != nil {
					return err
				}
				parts[i] = v
			}
			if verr := validYMD(parts[0], parts[1], parts[2]); verr != nil {
				return verr
			}
			if parts[3] < 0 || parts[3] > 23 {
				return object.NewError(object.TypeError, "hour must be in 0..23, got %d", parts[3])
			}
			if parts[4] < 0 || parts[4] > 59 {
				return object.NewError(object.TypeError, "minute must be in 0..59, got %d", parts[4])
			}
			if parts[5] < 0 || parts[5] > 59 {
				return object.NewError(object.TypeError, "second must be in 0..59, got %d", parts[5])
			}
			t := time.Date(int(parts[0]), time.Month(parts[1]), int(parts[2]),
				int(parts[3]), int(parts[4]), int(parts[5]), 0, time.Local)
			return &object.DateTime{Value: t}
		},
	}
}

func opParseDateTime() *operation.Operation {
	return &operation.Operation{
		Identifier:  "ParseDateTime",
		Name:        "Parse DateTime",
		Description: "Parses a datetime from a string in any common format",
		Category:    "DateTime/Creation",
		Required:    []operation.ArgInfo{arg("text", "Text to parse (e.g. '2024-03-01 10:30' or 'March 1, 2024')")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			text, serr := str("text", args[0])
			if serr != nil {
				return serr
			}
			t, err := dateparse.ParseLocal(text)
			if err != nil {
				return object.NewError(object.TypeError, "Cannot parse %q as a datetime", text)
			}
			return &object.DateTime{Value: t}
		},
	}
}

// shiftOp builds an operation adding a fractional count of fixed-length
// units to a datetime. keepDate preserves a date-only input as a date.
func shiftOp(ident, name, desc, unitName string, unit time.Duration, keepDate bool) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    "DateTime/Arithmetic",
		Required: []operation.ArgInfo{
			arg("dt", "Date or datetime"),
			arg(unitName, "Number of "+unitName+" to add"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			dt, derr := datetimeArg("dt", args[0])
			if derr != nil {
				return derr
			}
			n, nerr := number(unitName, args[1])
			if nerr != nil {
				return nerr
			}
			shifted := dt.Value.Add(time.Duration(n * float64(unit)))
			if keepDate && dt.DateOnly {
				return &object.DateTime{Value: truncated(shifted), DateOnly: true}
			}
			return &object.DateTime{Value: shifted}
		},
	}
}

func opAddDays() *operation.Operation {
	return shiftOp("AddDays", "Add Days", "Adds days to a date or datetime", "days", 24*time.Hour, true)
}

func opAddHours() *operation.Operation {
	return shiftOp("AddHours", "Add Hours", "Adds hours to a datetime", "hours", time.Hour, false)
}

func opAddMinutes() *operation.Operation {
	return shiftOp("AddMinutes", "Add Minutes", "Adds minutes to a datetime", "minutes", time.Minute, false)
}

func opAddMonths() *operation.Operation {
	return &operation.Operation{
		Identifier:  "AddMonths",
		Name:        "Add Months",
		Description: "Adds months to a date or datetime",
		Category:    "DateTime/Arithmetic",
		Required: []operation.ArgInfo{
			arg("dt", "Date or datetime"),
			arg("months", "Number of months to add"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			dt, derr := datetimeArg("dt", args[0])
			if derr != nil {
				return derr
			}
			months, merr := integer("months", args[1])
			if merr != nil {
				return merr
			}
			t := dt.Value
			total := int64(t.Month()) + months
			year := t.Year() + int((total-1)/12)
			month := int((total-1)%12) + 1
			if month < 1 {
				// Go's % keeps the dividend's sign.
				month += 12
				year--
			}
			// Clamp instead of rolling over (Jan 31 + 1 month = Feb 28/29).
			day := t.Day()
			if max := daysInMonth(year, month); day > max {
				day = max
			}
			shifted := time.Date(year, time.Month(month), day,
				t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
			return &object.DateTime{Value: shifted, DateOnly: dt.DateOnly}
		},
	}
}

func opAddYears() *operation.Operation {
	return &operation.Operation{
		Identifier:  "AddYears",
		Name:        "Add Years",
		Description: "Adds years to a date or datetime",
		Category:    "DateTime/Arithmetic",
		Required: []operation.ArgInfo{
			arg("dt", "Date or datetime"),
			arg("years", "Number of years to add"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			dt, derr := datetimeArg("dt", args[0])
			if derr != nil {
				return derr
			}
			years, yerr := integer("years", args[1])
			if yerr != nil {
				return yerr
			}
			t := dt.Value
			year := t.Year() + int(years)
			day := t.Day()
			// Feb 29 clamps to Feb 28 outside leap years.
			if t.Month() == time.February && day == 29 && !isLeap(year) {
				day = 28
			}
			shifted := time.Date(year, t.Month(), day,
				t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
			return &object.DateTime{Value: shifted, DateOnly: dt.DateOnly}
		},
	}
}

func opDaysBetween() *operation.Operation {
	return &operation.Operation{
		Identifier:  "DaysBetween",
		Name:        "Days Between",
		Description: "Calculates the number of days between two dates",
		Category:    "DateTime/Arithmetic",
		Required: []operation.ArgInfo{
			arg("dt1", "First date or datetime"),
			arg("dt2", "Second date or datetime"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			d1, err1 := datetimeArg("dt1", args[0])
			if err1 != nil {
				return err1
			}
			d2, err2 := datetimeArg("dt2", args[1])
			if err2 != nil {
				return err2
			}
			// Compare whole dates, ignoring the time of day.
			days := int64(truncated(d2.Value).Sub(truncated(d1.Value)).Hours() / 24)
			return &object.Integer{Value: days}
		},
	}
}

// componentOp builds an operation extracting one integer component.
func componentOp(ident, name, desc, argDesc string, fn func(t time.Time) int) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    "DateTime/Components",
		Required:    []operation.ArgInfo{arg("dt", argDesc)},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			dt, err := datetimeArg("dt", args[0])
			if err != nil {
				return err
			}
			return &object.Integer{Value: int64(fn(dt.Value))}
		},
	}
}

func opYear() *operation.Operation {
	return componentOp("Year", "Year", "Extracts the year from a date or datetime",
		"Date or datetime", func(t time.Time) int { return t.Year() })
}

func opMonth() *operation.Operation {
	return componentOp("Month", "Month", "Extracts the month from a date or datetime",
		"Date or datetime", func(t time.Time) int { return int(t.Month()) })
}

func opDay() *operation.Operation {
	return componentOp("Day", "Day", "Extracts the day from a date or datetime",
		"Date or datetime", func(t time.Time) int { return t.Day() })
}

func opHour() *operation.Operation {
	return componentOp("Hour", "Hour", "Extracts the hour from a datetime",
		"DateTime", func(t time.Time) int { return t.Hour() })
}

func opMinute() *operation.Operation {
	return componentOp("Minute", "Minute", "Extracts the minute from a datetime",
		"DateTime", func(t time.Time) int { return t.Minute() })
}

func opSecond() *operation.Operation {
	return componentOp("Second", "Second", "Extracts the second from a datetime",
		"DateTime", func(t time.Time) int { return t.Second() })
}

func opDayOfWeek() *operation.Operation {
	return componentOp("DayOfWeek", "Day of Week", "Returns the day of the week (0=Monday, 6=Sunday)",
		"Date or datetime", func(t time.Time) int {
			// time.Weekday counts from Sunday.
			return (int(t.Weekday()) + 6) % 7
		})
}

func opDayOfYear() *operation.Operation {
	return componentOp("DayOfYear", "Day of Year", "Returns the day of the year (1-366)",
		"Date or datetime", func(t time.Time) int { return t.YearDay() })
}

func opWeekOfYear() *operation.Operation {
	return componentOp("WeekOfYear", "Week of Year", "Returns the ISO week number (1-53)",
		"Date or datetime", func(t time.Time) int {
			_, week := t.ISOWeek()
			return week
		})
}

// strftimeToLayout maps the common strftime verbs onto a Go time layout.
// Unknown verbs pass through untouched.
var strftimeVerbs = map[byte]string{
	'Y': "2006", 'y': "06", 'm': "01", 'd': "02",
	'H': "15", 'I': "03", 'M': "04", 'S': "05",
	'B': "January", 'b': "Jan", 'A': "Monday", 'a': "Mon",
	'p': "PM", 'j': "002", 'Z': "MST", '%': "%",
}

func strftimeToLayout(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '%' && i+1 < len(pattern) {
			if layout, ok := strftimeVerbs[pattern[i+1]]; ok {
				b.WriteString(layout)
				i++
				continue
			}
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

func opFormatDateTime() *operation.Operation {
	return &operation.Operation{
		Identifier:  "FormatDateTime",
		Name:        "Format DateTime",
		Description: "Formats a datetime using a pattern (strftime format)",
		Category:    "DateTime/Format",
		Required: []operation.ArgInfo{
			arg("dt", "Date or datetime"),
			arg("pattern", "Format pattern (e.g., '%Y-%m-%d')"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			dt, derr := datetimeArg("dt", args[0])
			if derr != nil {
				return derr
			}
			pattern, perr := str("pattern", args[1])
			if perr != nil {
				return perr
			}
			return &object.String{Value: dt.Value.Format(strftimeToLayout(pattern))}
		},
	}
}

func opIsLeapYear() *operation.Operation {
	return &operation.Operation{
		Identifier:  "IsLeapYear",
		Name:        "Is Leap Year",
		Description: "Checks if a year is a leap year",
		Category:    "DateTime/Info",
		Required:    []operation.ArgInfo{arg("year", "Year to check")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			year, err := integer("year", args[0])
			if err != nil {
				return err
			}
			if isLeap(int(year)) {
				return &object.Integer{Value: 1}
			}
			return &object.Integer{Value: 0}
		},
	}
}

func opDaysInMonth() *operation.Operation {
	return &operation.Operation{
		Identifier:  "DaysInMonth",
		Name:        "Days in Month",
		Description: "Returns the number of days in a month",
		Category:    "DateTime/Info",
		Required: []operation.ArgInfo{
			arg("year", "Year"),
			arg("month", "Month (1-12)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			year, yerr := integer("year", args[0])
			if yerr != nil {
				return yerr
			}
			month, merr := integer("month", args[1])
			if merr != nil {
				return merr
			}
			if month < 1 || month > 12 {
				return object.NewError(object.TypeError, "Month must be between 1 and 12, got %d", month)
			}
			return &object.Integer{Value: int64(daysInMonth(int(year), int(month)))}
		},
	}
}
