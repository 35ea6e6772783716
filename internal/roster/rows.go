package roster

import (
	"strconv"
	"strings"
	"time"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

// TimestampLayout is the workbook timestamp format, day first.
const TimestampLayout = "02/01/2006 15:04:05"

// noSeatsFlag is the workbook value marking a hard-closed modality.
const noSeatsFlag = "NÃO"

// Column counts per sheet. Parsing is fail-fast: a short row aborts the
// whole read rather than producing a silently truncated record.
const (
	modalityRowLen   = 5
	studentRowLen    = 4
	enrollmentRowLen = 9
	authorizedRowLen = 5
)

// ParseModalityRow converts a MODALIDADES row into a Modality.
// Layout: gender tag, name, unit, has-seats flag, seat limit, then two
// derived counter cells (committed, remaining) that are recomputed from the
// enrollment sheet and therefore ignored here.
func ParseModalityRow(row []string) (models.Modality, error) {
	if len(row) < modalityRowLen {
		return models.Modality{}, errors.Clone(errors.ErrMalformedRow, "modality row too short")
	}

	limit, err := parseSeatLimit(row[4])
	if err != nil {
		return models.Modality{}, err
	}

	return models.Modality{
		Gender:    strings.TrimSpace(row[0]),
		Name:      strings.TrimSpace(row[1]),
		Unit:      strings.TrimSpace(row[2]),
		HasSeats:  !strings.EqualFold(strings.TrimSpace(row[3]), noSeatsFlag),
		SeatLimit: limit,
	}, nil
}

// ParseStudentRow converts an INSCRITOS-ECOMMERCE row into a Student.
// Layout: RA, unit, cohort, name.
func ParseStudentRow(row []string) (models.Student, error) {
	if len(row) < studentRowLen {
		return models.Student{}, errors.Clone(errors.ErrMalformedRow, "student row too short")
	}
	return models.Student{
		RA:     strings.TrimSpace(row[0]),
		Unit:   strings.TrimSpace(row[1]),
		Cohort: strings.TrimSpace(row[2]),
		Name:   strings.TrimSpace(row[3]),
	}, nil
}

// ParseEnrollmentRow converts an INSCRITOS-UNIDADE row into an Enrollment.
// Layout: unit, student, RA, cohort, modality gender, modality, modality
// unit, timestamp, enrolled-by.
func ParseEnrollmentRow(position int, row []string) (models.Enrollment, error) {
	if len(row) < enrollmentRowLen {
		return models.Enrollment{}, errors.Clone(errors.ErrMalformedRow, "enrollment row too short")
	}
	return models.Enrollment{
		Position:       position,
		Unit:           strings.TrimSpace(row[0]),
		Student:        strings.TrimSpace(row[1]),
		RA:             strings.TrimSpace(row[2]),
		Cohort:         strings.TrimSpace(row[3]),
		ModalityGender: strings.TrimSpace(row[4]),
		Modality:       strings.TrimSpace(row[5]),
		ModalityUnit:   strings.TrimSpace(row[6]),
		Timestamp:      strings.TrimSpace(row[7]),
		EnrolledBy:     strings.TrimSpace(row[8]),
	}, nil
}

// ParseAuthorizedRow converts an AUTORIZADOS row into an AuthorizedUser.
// Layout: unit, name, _, email, phone.
func ParseAuthorizedRow(row []string) (models.AuthorizedUser, error) {
	if len(row) < authorizedRowLen {
		return models.AuthorizedUser{}, errors.Clone(errors.ErrMalformedRow, "authorized row too short")
	}
	return models.AuthorizedUser{
		Unit:  strings.TrimSpace(row[0]),
		Name:  strings.TrimSpace(row[1]),
		Email: strings.TrimSpace(row[3]),
		Phone: strings.TrimSpace(row[4]),
	}, nil
}

// EnrollmentRow builds the positional row persisted for one enrollment.
func EnrollmentRow(e models.Enrollment) []string {
	return []string{
		e.Unit,
		e.Student,
		e.RA,
		e.Cohort,
		e.ModalityGender,
		e.Modality,
		e.ModalityUnit,
		e.Timestamp,
		e.EnrolledBy,
	}
}

// TombstoneRow builds the archive row for a deleted enrollment: the original
// row plus who deleted it and when.
func TombstoneRow(e models.Enrollment, deletedBy string, at time.Time) []string {
	return append(EnrollmentRow(e), deletedBy, at.Format(TimestampLayout))
}

// LoginRow builds the access log row for one successful login.
func LoginRow(unit, name string, at time.Time) []string {
	return []string{unit, name, at.Format(TimestampLayout)}
}

// Timestamp formats a time for persistence.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func parseSeatLimit(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.UnlimitedSeats, nil
	}
	limit, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrMalformedRow.Code, errors.ErrMalformedRow.Status, "invalid seat limit")
	}
	if limit < 0 {
		return models.UnlimitedSeats, nil
	}
	return limit, nil
}
