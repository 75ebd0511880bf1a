package sportsgameodds

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

const sourceTag = "sgo"

func init() {
	adapter.Register("sportsgameodds", New)
}

// Adapter reads the SportsGameOdds v2 events feed. Props only: the feed
// carries per-bookmaker over/under pairs keyed inside event.odds; it has no
// finished-game stat lines, so FetchGameLogs is empty.
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

// eventsResponse mirrors the slice of the v2 payload we consume.
type eventsResponse struct {
	Success bool       `json:"success"`
	Data    []sgoEvent `json:"data"`
}

type sgoEvent struct {
	EventID string `json:"eventID"`
	Status  struct {
		StartsAt time.Time `json:"startsAt"`
	} `json:"status"`
	Teams struct {
		Home sgoTeam `json:"home"`
		Away sgoTeam `json:"away"`
	} `json:"teams"`
	// the player's team lives here, keyed by playerID, not on the odd
	Players map[string]sgoPlayer `json:"players"`
	Odds    map[string]sgoOdd    `json:"odds"`
}

type sgoTeam struct {
	TeamID string `json:"teamID"`
	Names  struct {
		Abbr  string `json:"abbr"`
		Short string `json:"short"`
	} `json:"names"`
}

func (t sgoTeam) abbr() string {
	return firstNonEmpty(t.Names.Abbr, t.Names.Short)
}

type sgoPlayer struct {
	TeamID string `json:"teamID"`
}

type sgoOdd struct {
	StatID        string             `json:"statID"`
	PlayerID      string             `json:"playerID"`
	SideID        string             `json:"sideID"`
	MarketName    string             `json:"marketName"`
	FairOverUnder string             `json:"fairOverUnder"`
	ByBookmaker   map[string]sgoBook `json:"byBookmaker"`
}

type sgoBook struct {
	Available bool   `json:"available"`
	Odds      string `json:"odds"`
	OverUnder string `json:"overUnder"`
}

func (a *Adapter) FetchProps(ctx context.Context, league string, from, to time.Time) ([]model.RawPropRecord, error) {
	q := url.Values{}
	q.Set("leagueID", league)
	q.Set("startsAfter", from.UTC().Format(model.DateLayout))
	q.Set("startsBefore", to.UTC().Format(model.DateLayout))
	q.Set("oddsAvailable", "true")
	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + "/events?" + q.Encode()

	var resp eventsResponse
	if err := a.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("sportsgameodds events %s: %w", league, err)
	}

	var out []model.RawPropRecord
	dropped := 0
	for _, event := range resp.Data {
		out = append(out, a.parseEvent(event, league, &dropped)...)
	}
	if dropped > 0 {
		a.logger.WithFields(logrus.Fields{
			"provider": a.name, "league": league, "dropped": dropped,
		}).Warn("dropped unparseable prop odds")
	}
	return out, nil
}

func (a *Adapter) parseEvent(event sgoEvent, league string, dropped *int) []model.RawPropRecord {
	var out []model.RawPropRecord
	for oddID, odd := range event.Odds {
		// one record per over/under pair; the under side is folded in below
		if odd.PlayerID == "" || odd.SideID != "over" {
			continue
		}
		under, hasUnder := event.Odds[strings.Replace(oddID, "-over", "-under", 1)]
		team, opponent := event.teamsFor(odd.PlayerID)
		for bookmaker, over := range odd.ByBookmaker {
			if !over.Available {
				continue
			}
			line, err := strconv.ParseFloat(firstNonEmpty(over.OverUnder, odd.FairOverUnder), 64)
			if err != nil {
				*dropped++
				continue
			}
			rec := model.RawPropRecord{
				SourceTag:      sourceTag,
				SourcePlayerID: odd.PlayerID,
				RawName:        playerName(odd.PlayerID, odd.MarketName),
				Team:           team,
				Opponent:       opponent,
				League:         league,
				RawPropType:    odd.StatID,
				Line:           line,
				Bookmaker:      bookmaker,
				EventDate:      event.Status.StartsAt,
				OverOddsAmerican: parseAmerican(over.Odds),
			}
			if hasUnder {
				if ub, ok := under.ByBookmaker[bookmaker]; ok && ub.Available {
					rec.UnderOddsAmerican = parseAmerican(ub.Odds)
				}
			}
			out = append(out, rec)
		}
	}
	return out
}

// teamsFor resolves a player's own team and their opponent by matching the
// player's teamID against the event sides. Both empty when the feed omits
// the player entry.
func (e sgoEvent) teamsFor(playerID string) (team, opponent string) {
	p, ok := e.Players[playerID]
	if !ok || p.TeamID == "" {
		return "", ""
	}
	switch p.TeamID {
	case e.Teams.Home.TeamID:
		return e.Teams.Home.abbr(), e.Teams.Away.abbr()
	case e.Teams.Away.TeamID:
		return e.Teams.Away.abbr(), e.Teams.Home.abbr()
	}
	return "", ""
}

// FetchGameLogs is empty for this feed; performance rows come from the
// stats provider.
func (a *Adapter) FetchGameLogs(ctx context.Context, league string, from, to time.Time) ([]model.RawGameLogRecord, error) {
	return nil, nil
}

// playerName recovers a display name from ids like "JALEN_HURTS_1_NFL",
// falling back to the market name ("Jalen Hurts Passing Yards Over/Under").
func playerName(playerID, marketName string) string {
	parts := strings.Split(playerID, "_")
	var words []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.Atoi(p); err == nil {
			break
		}
		words = append(words, titleWord(p))
	}
	if len(words) > 0 {
		return strings.Join(words, " ")
	}
	return marketName
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

func parseAmerican(s string) *int {
	s = strings.TrimSpace(strings.TrimPrefix(s, "+"))
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
