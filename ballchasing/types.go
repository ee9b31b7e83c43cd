package ballchasing

import (
	"net/url"
	"strconv"
	"time"
)

// Playlist identifies a Rocket League playlist accepted by the replay
// filters.
type Playlist string

// Playlists accepted by the API.
const (
	PlaylistUnrankedDuels      Playlist = "unranked-duels"
	PlaylistUnrankedDoubles    Playlist = "unranked-doubles"
	PlaylistUnrankedStandard   Playlist = "unranked-standard"
	PlaylistUnrankedChaos      Playlist = "unranked-chaos"
	PlaylistPrivate            Playlist = "private"
	PlaylistSeason             Playlist = "season"
	PlaylistOffline            Playlist = "offline"
	PlaylistRankedDuels        Playlist = "ranked-duels"
	PlaylistRankedDoubles      Playlist = "ranked-doubles"
	PlaylistRankedSoloStandard Playlist = "ranked-solo-standard"
	PlaylistRankedStandard     Playlist = "ranked-standard"
	PlaylistSnowday            Playlist = "snowday"
	PlaylistRocketlabs         Playlist = "rocketlabs"
	PlaylistHoops              Playlist = "hoops"
	PlaylistRumble             Playlist = "rumble"
	PlaylistTournament         Playlist = "tournament"
	PlaylistDropshot           Playlist = "dropshot"
	PlaylistRankedHoops        Playlist = "ranked-hoops"
	PlaylistRankedRumble       Playlist = "ranked-rumble"
	PlaylistRankedDropshot     Playlist = "ranked-dropshot"
	PlaylistRankedSnowday      Playlist = "ranked-snowday"
)

// Rank identifies a competitive rank tier for the min-rank/max-rank filters.
type Rank string

// Rank tiers accepted by the API, lowest to highest.
const (
	RankUnranked       Rank = "unranked"
	RankBronze1        Rank = "bronze-1"
	RankBronze2        Rank = "bronze-2"
	RankBronze3        Rank = "bronze-3"
	RankSilver1        Rank = "silver-1"
	RankSilver2        Rank = "silver-2"
	RankSilver3        Rank = "silver-3"
	RankGold1          Rank = "gold-1"
	RankGold2          Rank = "gold-2"
	RankGold3          Rank = "gold-3"
	RankPlatinum1      Rank = "platinum-1"
	RankPlatinum2      Rank = "platinum-2"
	RankPlatinum3      Rank = "platinum-3"
	RankDiamond1       Rank = "diamond-1"
	RankDiamond2       Rank = "diamond-2"
	RankDiamond3       Rank = "diamond-3"
	RankChampion1      Rank = "champion-1"
	RankChampion2      Rank = "champion-2"
	RankChampion3      Rank = "champion-3"
	RankGrandChampion1 Rank = "grand-champion-1"
	RankGrandChampion2 Rank = "grand-champion-2"
	RankGrandChampion3 Rank = "grand-champion-3"
	RankSupersonic     Rank = "supersonic-legend"
)

// MatchResult filters replays by outcome for the named player.
type MatchResult string

const (
	MatchResultWin  MatchResult = "win"
	MatchResultLoss MatchResult = "loss"
)

// SortBy selects the ordering key for replay listings.
type SortBy string

const (
	SortByReplayDate SortBy = "replay-date"
	SortByUploadDate SortBy = "upload-date"
)

// GroupSortBy selects the ordering key for group listings.
type GroupSortBy string

const (
	GroupSortByCreated GroupSortBy = "created"
	GroupSortByName    GroupSortBy = "name"
)

// SortDir selects the ordering direction for listings.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Visibility controls who can see an uploaded replay or group.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// PlayerIdentification controls how group statistics match players across
// replays.
type PlayerIdentification string

const (
	PlayerIdentificationByID   PlayerIdentification = "by-id"
	PlayerIdentificationByName PlayerIdentification = "by-name"
)

// TeamIdentification controls how group statistics match teams across
// replays.
type TeamIdentification string

const (
	TeamIdentificationByDistinctPlayers TeamIdentification = "by-distinct-players"
	TeamIdentificationByPlayerClusters  TeamIdentification = "by-player-clusters"
)

// Allowed value sets, kept as data so validation errors can name the full
// set. Order matters only for error messages.
var (
	playlists = []Playlist{
		PlaylistUnrankedDuels, PlaylistUnrankedDoubles, PlaylistUnrankedStandard,
		PlaylistUnrankedChaos, PlaylistPrivate, PlaylistSeason, PlaylistOffline,
		PlaylistRankedDuels, PlaylistRankedDoubles, PlaylistRankedSoloStandard,
		PlaylistRankedStandard, PlaylistSnowday, PlaylistRocketlabs,
		PlaylistHoops, PlaylistRumble, PlaylistTournament, PlaylistDropshot,
		PlaylistRankedHoops, PlaylistRankedRumble, PlaylistRankedDropshot,
		PlaylistRankedSnowday,
	}
	ranks = []Rank{
		RankUnranked,
		RankBronze1, RankBronze2, RankBronze3,
		RankSilver1, RankSilver2, RankSilver3,
		RankGold1, RankGold2, RankGold3,
		RankPlatinum1, RankPlatinum2, RankPlatinum3,
		RankDiamond1, RankDiamond2, RankDiamond3,
		RankChampion1, RankChampion2, RankChampion3,
		RankGrandChampion1, RankGrandChampion2, RankGrandChampion3,
		RankSupersonic,
	}
	matchResults          = []MatchResult{MatchResultWin, MatchResultLoss}
	sortKeys              = []SortBy{SortByReplayDate, SortByUploadDate}
	groupSortKeys         = []GroupSortBy{GroupSortByCreated, GroupSortByName}
	sortDirs              = []SortDir{SortAsc, SortDesc}
	visibilities          = []Visibility{VisibilityPublic, VisibilityUnlisted, VisibilityPrivate}
	playerIdentifications = []PlayerIdentification{PlayerIdentificationByID, PlayerIdentificationByName}
	teamIdentifications   = []TeamIdentification{TeamIdentificationByDistinctPlayers, TeamIdentificationByPlayerClusters}
)

// maxPageSize is the largest per-page count the API accepts.
const maxPageSize = 200

func isAllowed[T ~string](value T, set []T) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func allowedStrings[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, v := range set {
		out[i] = string(v)
	}
	return out
}

// checkEnum validates an optional enum-valued filter field. Zero values are
// treated as unset and skipped.
func checkEnum[T ~string](param string, value T, set []T) error {
	if value == "" || isAllowed(value, set) {
		return nil
	}
	return &ArgumentError{Param: param, Value: string(value), Allowed: allowedStrings(set)}
}

// Replay is a replay record as returned by the API. The schema is passed
// through untouched; use ID to pull out the identifier.
type Replay map[string]any

// ID returns the replay identifier, or "" if absent.
func (r Replay) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Group is a replay group record as returned by the API.
type Group map[string]any

// ID returns the group identifier, or "" if absent.
func (g Group) ID() string {
	id, _ := g["id"].(string)
	return id
}

// AccountStatus describes the authenticated account as reported by the API
// root endpoint. The patronage tier determines the server-side rate limits.
type AccountStatus struct {
	Chaser    bool   `json:"chaser"`
	Patronage string `json:"type"`
}

// replayPage is one page of a replay listing response.
type replayPage struct {
	Count int      `json:"count"`
	List  []Replay `json:"list"`
	Next  string   `json:"next"`
}

// groupPage is one page of a group listing response.
type groupPage struct {
	List []Group `json:"list"`
	Next string  `json:"next"`
}

// ReplayFilter holds the optional search parameters for ListReplays. Zero
// values are omitted from the outgoing request.
type ReplayFilter struct {
	Title            string
	PlayerName       string
	PlayerID         string
	Uploader         string
	Playlist         Playlist
	Season           string
	MatchResult      MatchResult
	MinRank          Rank
	MaxRank          Rank
	Map              string
	Pro              bool
	CreatedBefore    time.Time
	CreatedAfter     time.Time
	ReplayDateBefore time.Time
	ReplayDateAfter  time.Time
	Count            int
	SortBy           SortBy
	SortDir          SortDir
}

// validate checks enum-valued fields against their allowed sets and the
// listing invariants. It runs before any network call.
func (f ReplayFilter) validate() error {
	if f.PlayerName == "" && f.PlayerID == "" {
		return &ArgumentError{
			Param: "player-name/player-id",
			Value: "",
			Allowed: []string{
				"at least one of player-name or player-id must be supplied",
			},
		}
	}
	if err := checkEnum("playlist", f.Playlist, playlists); err != nil {
		return err
	}
	if err := checkEnum("match-result", f.MatchResult, matchResults); err != nil {
		return err
	}
	if err := checkEnum("min-rank", f.MinRank, ranks); err != nil {
		return err
	}
	if err := checkEnum("max-rank", f.MaxRank, ranks); err != nil {
		return err
	}
	if err := checkEnum("sort-by", f.SortBy, sortKeys); err != nil {
		return err
	}
	if err := checkEnum("sort-dir", f.SortDir, sortDirs); err != nil {
		return err
	}
	if f.Count < 0 || f.Count > maxPageSize {
		return &ArgumentError{
			Param:   "count",
			Value:   strconv.Itoa(f.Count),
			Allowed: []string{"1 to 200"},
		}
	}
	return nil
}

// values builds the query parameters, omitting unset fields.
func (f ReplayFilter) values() url.Values {
	params := url.Values{}
	setString(params, "title", f.Title)
	setString(params, "player-name", f.PlayerName)
	setString(params, "player-id", f.PlayerID)
	setString(params, "uploader", f.Uploader)
	setString(params, "playlist", string(f.Playlist))
	setString(params, "season", f.Season)
	setString(params, "match-result", string(f.MatchResult))
	setString(params, "min-rank", string(f.MinRank))
	setString(params, "max-rank", string(f.MaxRank))
	setString(params, "map", f.Map)
	if f.Pro {
		params.Set("pro", "true")
	}
	setTime(params, "created-before", f.CreatedBefore)
	setTime(params, "created-after", f.CreatedAfter)
	setTime(params, "replay-date-before", f.ReplayDateBefore)
	setTime(params, "replay-date-after", f.ReplayDateAfter)
	if f.Count > 0 {
		params.Set("count", strconv.Itoa(f.Count))
	}
	setString(params, "sort-by", string(f.SortBy))
	setString(params, "sort-dir", string(f.SortDir))
	return params
}

// GroupFilter holds the optional search parameters for ListGroups. Zero
// values are omitted from the outgoing request.
type GroupFilter struct {
	Name          string
	Creator       string
	Group         string
	CreatedBefore time.Time
	CreatedAfter  time.Time
	Count         int
	SortBy        GroupSortBy
	SortDir       SortDir
}

func (f GroupFilter) validate() error {
	if err := checkEnum("sort-by", f.SortBy, groupSortKeys); err != nil {
		return err
	}
	if err := checkEnum("sort-dir", f.SortDir, sortDirs); err != nil {
		return err
	}
	if f.Count < 0 || f.Count > maxPageSize {
		return &ArgumentError{
			Param:   "count",
			Value:   strconv.Itoa(f.Count),
			Allowed: []string{"1 to 200"},
		}
	}
	return nil
}

func (f GroupFilter) values() url.Values {
	params := url.Values{}
	setString(params, "name", f.Name)
	setString(params, "creator", f.Creator)
	setString(params, "group", f.Group)
	setTime(params, "created-before", f.CreatedBefore)
	setTime(params, "created-after", f.CreatedAfter)
	if f.Count > 0 {
		params.Set("count", strconv.Itoa(f.Count))
	}
	setString(params, "sort-by", string(f.SortBy))
	setString(params, "sort-dir", string(f.SortDir))
	return params
}

func setString(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func setTime(params url.Values, key string, value time.Time) {
	if !value.IsZero() {
		params.Set(key, value.Format(time.RFC3339))
	}
}
