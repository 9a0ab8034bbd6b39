package bookingapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
)

const dateLayout = "2006-01-02"

type lineupsEnvelope struct {
	APIVersion string `json:"apiVersion"`
	Data       struct {
		Items []lineupPayload `json:"items"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type lineupPayload struct {
	ID           string          `json:"id"`
	ScheduleName string          `json:"schedule_name"`
	Venue        string          `json:"venue"`
	Date         string          `json:"date"`
	Time         string          `json:"time"`
	Status       string          `json:"status"`
	TeamA        []playerPayload `json:"team_a"`
	TeamB        []playerPayload `json:"team_b"`
}

type playerPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Order    int    `json:"order"`
	Notes    string `json:"notes,omitempty"`
}

type teamUpdateRequest struct {
	Team string `json:"team"`
}

func (e lineupsEnvelope) toDomain() ([]lineup.Lineup, error) {
	out := make([]lineup.Lineup, 0, len(e.Data.Items))
	for _, item := range e.Data.Items {
		l, err := item.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (p lineupPayload) toDomain() (lineup.Lineup, error) {
	meta := lineup.Meta{
		ID:           strings.TrimSpace(p.ID),
		ScheduleName: p.ScheduleName,
		Venue:        p.Venue,
		Time:         p.Time,
		Status:       lineup.Status(strings.ToUpper(strings.TrimSpace(p.Status))),
	}
	if raw := strings.TrimSpace(p.Date); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return lineup.Lineup{}, fmt.Errorf("parse date lineup=%s: %w", meta.ID, err)
		}
		meta.Date = date
	}

	return lineup.Normalize(meta, playersToDomain(p.TeamA), playersToDomain(p.TeamB)), nil
}

func playersToDomain(items []playerPayload) []lineup.Player {
	out := make([]lineup.Player, 0, len(items))
	for _, item := range items {
		out = append(out, lineup.Player{
			ID:       strings.TrimSpace(item.ID),
			Name:     item.Name,
			Phone:    item.Phone,
			Position: lineup.Position(strings.ToUpper(strings.TrimSpace(item.Position))),
			Notes:    item.Notes,
		})
	}
	return out
}
