package memory

import (
	"time"

	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
)

const (
	LineupIDThursdaySenayan = "lineup-senayan-thu"
	LineupIDSaturdayKemang  = "lineup-kemang-sat"
)

func SeedLineups() []lineup.Lineup {
	return []lineup.Lineup{
		lineup.Normalize(
			lineup.Meta{
				ID:           LineupIDThursdaySenayan,
				ScheduleName: "Thursday Night 5v5",
				Venue:        "Senayan Mini Soccer, Pitch 2",
				Date:         time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC),
				Time:         "19:00-20:30",
				Status:       lineup.StatusConfirmed,
			},
			[]lineup.Player{
				{ID: "pl-andri", Name: "Andri Wibowo", Phone: "+6281211110001", Position: lineup.PositionGoalkeeper},
				{ID: "pl-bagus", Name: "Bagus Saputra", Phone: "+6281211110002", Position: lineup.PositionFieldPlayer},
				{ID: "pl-cahyo", Name: "Cahyo Nugroho", Phone: "+6281211110003", Position: lineup.PositionFieldPlayer},
				{ID: "pl-dimas", Name: "Dimas Pratama", Phone: "+6281211110004", Position: lineup.PositionFieldPlayer},
				{ID: "pl-eko", Name: "Eko Santoso", Phone: "+6281211110005", Position: lineup.PositionFieldPlayer},
			},
			[]lineup.Player{
				{ID: "pl-fikri", Name: "Fikri Hidayat", Phone: "+6281211110006", Position: lineup.PositionFieldPlayer},
				{ID: "pl-gilang", Name: "Gilang Ramadhan", Phone: "+6281211110007", Position: lineup.PositionGoalkeeper},
				{ID: "pl-hendra", Name: "Hendra Kurniawan", Phone: "+6281211110008", Position: lineup.PositionFieldPlayer},
				{ID: "pl-irfan", Name: "Irfan Maulana", Phone: "+6281211110009", Position: lineup.PositionFieldPlayer, Notes: "arrives 19:15"},
				{ID: "pl-joko", Name: "Joko Susilo", Phone: "+6281211110010", Position: lineup.PositionFieldPlayer},
			},
		),
		lineup.Normalize(
			lineup.Meta{
				ID:           LineupIDSaturdayKemang,
				ScheduleName: "Saturday Morning Futsal",
				Venue:        "Kemang Futsal Arena",
				Date:         time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC),
				Time:         "07:00-08:00",
				Status:       lineup.StatusDraft,
			},
			[]lineup.Player{
				{ID: "pl-kevin", Name: "Kevin Halim", Position: lineup.PositionGoalkeeper},
				{ID: "pl-lukman", Name: "Lukman Hakim", Position: lineup.PositionFieldPlayer},
				{ID: "pl-made", Name: "Made Wirawan", Position: lineup.PositionFieldPlayer},
			},
			[]lineup.Player{
				{ID: "pl-nanda", Name: "Nanda Putra", Position: lineup.PositionFieldPlayer},
				{ID: "pl-oki", Name: "Oki Setiawan", Position: lineup.PositionFieldPlayer},
				{ID: "pl-putu", Name: "Putu Arya", Position: lineup.PositionFieldPlayer},
			},
		),
	}
}
