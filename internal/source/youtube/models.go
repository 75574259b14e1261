package youtube

// apiError is the error envelope the Data API embeds in response bodies,
// sometimes with a 200 status. Its presence always means the call failed.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type thumbnails struct {
	Default  *thumbnail `json:"default"`
	Medium   *thumbnail `json:"medium"`
	High     *thumbnail `json:"high"`
	Standard *thumbnail `json:"standard"`
	Maxres   *thumbnail `json:"maxres"`
}

type snippet struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishedAt string     `json:"publishedAt"`
	Thumbnails  thumbnails `json:"thumbnails"`
}

// searchResponse models GET /search (part=snippet).
type searchResponse struct {
	Error *apiError    `json:"error"`
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet snippet `json:"snippet"`
}

// videosResponse models GET /videos (part=statistics,snippet,contentDetails).
// Statistics counters come back as strings.
type videosResponse struct {
	Error *apiError   `json:"error"`
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID         string  `json:"id"`
	Snippet    snippet `json:"snippet"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

// oembedResponse models the keyless youtube.com/oembed lookup used by the
// enrichment function as a title/thumbnail fallback.
type oembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}
