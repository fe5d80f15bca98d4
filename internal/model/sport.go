package model

// Sport is a bookable activity. Name is unique and is what orders reference.
type Sport struct {
	ID            int64  `json:"sportId"`
	Name          string `json:"sportName"`
	ScheduledTime string `json:"sportTime"`
	HallNumber    int    `json:"hallNumber"`
	Note          string `json:"note"`
}
