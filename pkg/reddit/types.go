package reddit

import "encoding/json"

// AccountProfile is an immutable snapshot of a Reddit account, fetched once per run.
type AccountProfile struct {
	Username         string  `json:"username"`
	CreatedUTC       float64 `json:"created_utc"`
	CommentKarma     int     `json:"comment_karma"`
	LinkKarma        int     `json:"link_karma"`
	HasVerifiedEmail bool    `json:"has_verified_email"`
	IsGold           bool    `json:"is_gold"`
	IsMod            bool    `json:"is_mod"`
	IsEmployee       bool    `json:"is_employee"`
}

// Comment is a single comment written by the account, newest first in listings.
type Comment struct {
	ID          string  `json:"id"`
	Body        string  `json:"body"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	IsSubmitter bool    `json:"is_submitter"`
}

// Post is a single submission made by the account.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
}

// aboutResponse is the envelope returned by /user/{name}/about.
type aboutResponse struct {
	Kind string `json:"kind"`
	Data struct {
		Name             string  `json:"name"`
		CreatedUTC       float64 `json:"created_utc"`
		CommentKarma     int     `json:"comment_karma"`
		LinkKarma        int     `json:"link_karma"`
		HasVerifiedEmail bool    `json:"has_verified_email"`
		IsGold           bool    `json:"is_gold"`
		IsMod            bool    `json:"is_mod"`
		IsEmployee       bool    `json:"is_employee"`
	} `json:"data"`
}

// listingResponse is the common Reddit listing envelope. Children are kept as
// raw JSON so a single malformed item can be skipped without discarding the page.
type listingResponse struct {
	Kind string `json:"kind"`
	Data struct {
		After    string         `json:"after"`
		Before   string         `json:"before"`
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// commentData mirrors the fields of a "t1" listing child we care about.
type commentData struct {
	ID          string  `json:"id"`
	Body        string  `json:"body"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	IsSubmitter bool    `json:"is_submitter"`
}

// postData mirrors the fields of a "t3" listing child we care about.
type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
}
