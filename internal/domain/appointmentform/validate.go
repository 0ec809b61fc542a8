package appointmentform

// Field names used as keys in Errors.
const (
	FieldPatient = "patientId"
	FieldDoctor  = "doctorId"
	FieldPrice   = "appointmentPrice"
	FieldDate    = "date"
	FieldTime    = "time"
)

// Per-field validation messages.
const (
	MsgPatientRequired = "Patient is required"
	MsgDoctorRequired  = "Doctor is required"
	MsgPriceRequired   = "Appointment price is required"
	MsgDateRequired    = "Date is required"
	MsgTimeRequired    = "Time is required"
)

// minPriceInCents is one currency unit.
const minPriceInCents = 100

// Errors maps a field name to its message. Empty means valid.
type Errors map[string]string

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Validate checks every field of the draft and reports one message per
// failing field.
func Validate(d Draft) Errors {
	errs := Errors{}
	if d.PatientID == "" {
		errs[FieldPatient] = MsgPatientRequired
	}
	if d.DoctorID == "" {
		errs[FieldDoctor] = MsgDoctorRequired
	}
	if d.PriceInCents < minPriceInCents {
		errs[FieldPrice] = MsgPriceRequired
	}
	if d.Date.IsZero() {
		errs[FieldDate] = MsgDateRequired
	}
	if d.Time == "" {
		errs[FieldTime] = MsgTimeRequired
	}
	return errs
}
