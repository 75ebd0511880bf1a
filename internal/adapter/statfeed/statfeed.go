package statfeed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PropSync/internal/adapter"
	"PropSync/internal/config"
	"PropSync/internal/interfaces"
	"PropSync/internal/model"
	"PropSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const sourceTag = "statfeed"

func init() {
	adapter.Register("statfeed", New)
}

// sportPath maps a league code onto the scoreboard URL segment.
var sportPath = map[string]string{
	"NFL": "football/nfl",
	"NBA": "basketball/nba",
	"MLB": "baseball/mlb",
	"NHL": "hockey/nhl",
}

// statColumns names the box-score columns worth turning into game-log rows,
// per league, keyed by the feed's column label.
var statColumns = map[string]map[string]string{
	"NBA": {
		"PTS": "Points",
		"REB": "Rebounds",
		"AST": "Assists",
		"3PM": "3PM",
		"STL": "Steals",
		"BLK": "Blocks",
	},
	"NFL": {
		"PASS YDS": "Passing Yards",
		"RUSH YDS": "Rushing Yards",
		"REC YDS":  "Receiving Yards",
		"REC":      "Receptions",
	},
}

// Adapter reads a public scoreboard/box-score feed for finished-game player
// stat lines. Logs only: the feed has no betting odds, so FetchProps is
// empty.
type Adapter struct {
	name   string
	cfg    *config.ProviderConfig
	client *httpclient.Client
	logger *logrus.Logger
}

func New(name string, cfg *config.ProviderConfig, logger *logrus.Logger) (interfaces.ProviderAdapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider %s: base_url required", name)
	}
	return &Adapter{
		name:   name,
		cfg:    cfg,
		client: httpclient.New(cfg, logger),
		logger: logger,
	}, nil
}

func (a *Adapter) Name() string      { return a.name }
func (a *Adapter) SourceTag() string { return sourceTag }

func (a *Adapter) FetchProps(ctx context.Context, league string, from, to time.Time) ([]model.RawPropRecord, error) {
	return nil, nil
}

type scoreboardResponse struct {
	Events []sbEvent `json:"events"`
}

type sbEvent struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Competitions []sbCompetition `json:"competitions"`
}

type sbCompetition struct {
	Competitors []sbCompetitor `json:"competitors"`
	Statistics  []sbStatBlock  `json:"statistics"`
}

type sbCompetitor struct {
	HomeAway string `json:"homeAway"`
	Team     struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

type sbStatBlock struct {
	Labels []string     `json:"labels"`
	Team   string       `json:"team"`
	Items  []sbStatItem `json:"items"`
}

type sbStatItem struct {
	Athlete struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"athlete"`
	Stats []string `json:"stats"`
}

// FetchGameLogs walks the scoreboard one day at a time and flattens player
// box-score lines into one record per tracked stat column.
func (a *Adapter) FetchGameLogs(ctx context.Context, league string, from, to time.Time) ([]model.RawGameLogRecord, error) {
	path, ok := sportPath[league]
	if !ok {
		return nil, fmt.Errorf("statfeed: unsupported league %s", league)
	}
	columns := statColumns[league]
	if len(columns) == 0 {
		return nil, fmt.Errorf("statfeed: no stat columns configured for %s", league)
	}

	var out []model.RawGameLogRecord
	for day := from.UTC().Truncate(24 * time.Hour); !day.After(to.UTC()); day = day.AddDate(0, 0, 1) {
		q := url.Values{}
		q.Set("dates", day.Format("20060102"))
		q.Set("limit", "100")
		endpoint := scoreboardEndpoint(a.cfg.BaseURL, path, q)

		var resp scoreboardResponse
		if err := a.client.GetJSON(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("statfeed scoreboard %s %s: %w", league, day.Format(model.DateLayout), err)
		}
		for _, event := range resp.Events {
			out = append(out, a.parseEvent(event, league, columns)...)
		}
	}
	return out, nil
}

// scoreboardEndpoint joins the configured base with the site API path. The
// path segment is appended only when the base does not already carry it, so
// a bare host and a full prefix both produce the same URL.
func scoreboardEndpoint(base, sport string, q url.Values) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/apis/site/v2/sports") {
		base += "/apis/site/v2/sports"
	}
	return fmt.Sprintf("%s/%s/scoreboard?%s", base, sport, q.Encode())
}

func (a *Adapter) parseEvent(event sbEvent, league string, columns map[string]string) []model.RawGameLogRecord {
	if len(event.Competitions) == 0 {
		return nil
	}
	comp := event.Competitions[0]

	teams := map[string]string{} // homeAway -> abbreviation
	for _, c := range comp.Competitors {
		teams[c.HomeAway] = c.Team.Abbreviation
	}
	opponentOf := func(team string) string {
		if team == teams["home"] {
			return teams["away"]
		}
		return teams["home"]
	}

	var out []model.RawGameLogRecord
	for _, block := range comp.Statistics {
		team := block.Team
		if team == "" {
			team = teams["home"]
		}
		for label, rawType := range columns {
			idx := indexOf(block.Labels, label)
			if idx < 0 {
				continue
			}
			for _, item := range block.Items {
				if item.Athlete.DisplayName == "" || idx >= len(item.Stats) {
					continue
				}
				value, err := strconv.ParseFloat(item.Stats[idx], 64)
				if err != nil {
					continue
				}
				out = append(out, model.RawGameLogRecord{
					SourceTag:      sourceTag,
					SourcePlayerID: item.Athlete.ID,
					RawName:        item.Athlete.DisplayName,
					Team:           team,
					Opponent:       opponentOf(team),
					League:         league,
					RawPropType:    rawType,
					ActualValue:    value,
					GameDate:       event.Date,
					GameID:         event.ID,
				})
			}
		}
	}
	return out
}

func indexOf(labels []string, want string) int {
	for i, l := range labels {
		if strings.EqualFold(l, want) {
			return i
		}
	}
	return -1
}
