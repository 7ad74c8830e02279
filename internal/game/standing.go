package game

type Standing struct {
	PlayerID      string `json:"player_id"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	Byes          int    `json:"byes"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	PointDiff     int    `json:"point_diff"`
	Rank          int    `json:"rank"`
}
