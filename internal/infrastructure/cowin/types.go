package cowin

type State struct {
	ID   int    `json:"state_id"`
	Name string `json:"state_name"`
}

type District struct {
	ID   int    `json:"district_id"`
	Name string `json:"district_name"`
}

type Center struct {
	ID           int       `json:"center_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	StateName    string    `json:"state_name"`
	DistrictName string    `json:"district_name"`
	Pincode      int       `json:"pincode"`
	FeeType      string    `json:"fee_type"`
	Sessions     []Session `json:"sessions"`
}

type Session struct {
	ID                     string   `json:"session_id"`
	Date                   string   `json:"date"`
	AvailableCapacity      int      `json:"available_capacity"`
	AvailableCapacityDose1 int      `json:"available_capacity_dose1"`
	AvailableCapacityDose2 int      `json:"available_capacity_dose2"`
	MinAgeLimit            int      `json:"min_age_limit"`
	Vaccine                string   `json:"vaccine"`
	Slots                  []string `json:"slots"`
}

// Capacity returns the seats left for a dose.
func (s Session) Capacity(dose int) int {
	if dose == 2 {
		return s.AvailableCapacityDose2
	}
	return s.AvailableCapacityDose1
}

type Beneficiary struct {
	ReferenceID       string `json:"beneficiary_reference_id"`
	Name              string `json:"name"`
	VaccinationStatus string `json:"vaccination_status"`
}

type ScheduleRequest struct {
	CenterID      int      `json:"center_id"`
	SessionID     string   `json:"session_id"`
	Beneficiaries []string `json:"beneficiaries"`
	Slot          string   `json:"slot"`
	Dose          int      `json:"dose"`
}

type calendarResponse struct {
	Centers []Center `json:"centers"`
}

type scheduleResponse struct {
	ConfirmationNo string `json:"appointment_confirmation_no"`
	AppointmentID  string `json:"appointment_id"`
}
