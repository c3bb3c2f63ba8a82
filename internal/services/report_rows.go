package services

import (
	"fmt"
	"strconv"
)

const (
	placeholderProject = "Unknown"
	placeholderClient  = "No Client"

	remainingPositive = "positive"
	remainingNegative = "negative"
)

// EntryRow is one time entry of an "all" report
type EntryRow struct {
	Date      string  `json:"date"`
	Client    string  `json:"client"`
	Project   string  `json:"project"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Hours     float64 `json:"hours"`
	Rate      float64 `json:"rate"`
	Billing   float64 `json:"billing"`
	Type      string  `json:"type"`
}

func (r EntryRow) Columns() []string {
	return []string{"Date", "Client", "Project", "Start Time", "End Time", "Hours", "Rate", "Billing", "Type"}
}

func (r EntryRow) Values() []string {
	return []string{r.Date, r.Client, r.Project, r.StartTime, r.EndTime,
		money(r.Hours), rate(r.Rate), money(r.Billing), r.Type}
}

// ClientRow sums the entries of one client
type ClientRow struct {
	Client     string  `json:"client"`
	EntryCount int     `json:"entryCount"`
	Hours      float64 `json:"hours"`
	Billing    float64 `json:"billing"`
}

func (r ClientRow) Columns() []string {
	return []string{"Client", "Entries", "Hours", "Billing"}
}

func (r ClientRow) Values() []string {
	return []string{r.Client, strconv.Itoa(r.EntryCount), money(r.Hours), money(r.Billing)}
}

// ProjectRow sums the entries of one project name and compares billing with the budget
type ProjectRow struct {
	Client          string  `json:"client"`
	Project         string  `json:"project"`
	EntryCount      int     `json:"entryCount"`
	Hours           float64 `json:"hours"`
	Rate            float64 `json:"rate"`
	Billing         float64 `json:"billing"`
	Budget          float64 `json:"budget"`
	Remaining       float64 `json:"remaining"`
	RemainingStatus string  `json:"remainingStatus"`
}

func (r ProjectRow) Columns() []string {
	return []string{"Client", "Project", "Entries", "Hours", "Rate", "Billing", "Budget", "Remaining", "Status"}
}

func (r ProjectRow) Values() []string {
	return []string{r.Client, r.Project, strconv.Itoa(r.EntryCount), money(r.Hours), rate(r.Rate),
		money(r.Billing), money(r.Budget), money(r.Remaining), r.RemainingStatus}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func remainingStatus(remaining float64) string {
	if remaining >= 0 {
		return remainingPositive
	}
	return remainingNegative
}
