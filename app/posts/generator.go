// Package posts synthesizes Instagram post data for the preview panel.
// Posts are derived from the username so repeated previews of the same feed
// look consistent, with random jitter in engagement numbers and timestamps.
package posts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"sync"
	"time"
)

// ErrUnavailable is the injected transient failure of the upstream fetch.
var ErrUnavailable = errors.New("post service unavailable")

type Post struct {
	ID        int       `json:"id"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
}

var imageCategories = []string{
	"nature", "architecture", "food", "people", "tech", "business", "fashion", "travel",
}

var businessCaptions = []string{
	"Excited to share our latest project! #innovation #growth",
	"Behind the scenes of what we do best #teamwork #excellence",
	"Another milestone reached! Thank you to our amazing clients #grateful #success",
	"Innovation never stops. Here's what we're working on next #futureready",
	"Building something special, one step at a time #progress #vision",
	"Our team's dedication continues to inspire #leadership #culture",
	"Celebrating the wins, big and small #achievement #momentum",
	"Quality is never an accident. It's always the result of effort #craftsmanship",
	"Connecting with our community means everything to us #community #values",
	"The future looks bright from where we stand #optimism #forward",
}

var personalCaptions = []string{
	"Living life one moment at a time #blessed #grateful",
	"Coffee, creativity, and endless possibilities #motivation #inspiration",
	"Making memories that will last forever #memories #life",
	"Sunshine mixed with a little hurricane #authentic #real",
	"Chasing dreams and catching flights #adventure #wanderlust",
	"Good vibes only, always #positivity #goodenergy",
	"Creating my own sunshine wherever I go #mindset #happiness",
	"Life is beautiful when you find beauty in everything #perspective #beauty",
	"Work hard, stay humble, be kind #values #growth",
	"Every day is a new opportunity to shine #motivation #newday",
}

var businessUsernameRe = regexp.MustCompile(`(?i)company|corp|inc|llc|agency|studio|consulting|solutions|group|services`)

type Generator struct {
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator that fails each Fetch call with the given
// probability. A rate of 0 disables the injected failure.
func NewGenerator(failureRate float64) *Generator {
	return &Generator{
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// Fetch returns count synthetic posts for a username, newest first. Image
// selection and captions are deterministic for a fixed (username, count);
// likes, comments and timestamps carry random jitter.
func (g *Generator) Fetch(ctx context.Context, username string, count int) ([]Post, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failureRate > 0 && g.rng.Float64() < g.failureRate {
		return nil, fmt.Errorf("failed to fetch posts for @%s: %w", username, ErrUnavailable)
	}

	seed := charSum(username)
	captions := personalCaptions
	if businessUsernameRe.MatchString(username) {
		captions = businessCaptions
	}

	now := g.now()
	result := make([]Post, 0, count)
	for i := 0; i < count; i++ {
		postID := seed + i
		category := imageCategories[(len(username)+i)%len(imageCategories)]

		result = append(result, Post{
			ID:        postID,
			Image:     fmt.Sprintf("https://picsum.photos/400/400?random=%d&%s", postID, category),
			Caption:   captions[i%len(captions)],
			Likes:     g.likes(username),
			Comments:  g.rng.Intn(50) + 5,
			Timestamp: now.Add(-time.Duration(g.rng.Int63n(int64(90 * 24 * time.Hour)))),
			Username:  username,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	return result, nil
}

// likes scales engagement to a follower tier derived from the username hash.
func (g *Generator) likes(username string) int {
	base := len(username)*10 + g.rng.Intn(500)

	switch charSum(username) % 3 {
	case 0: // macro
		return base + 1000
	case 1: // mid
		return base + 300
	default: // micro
		return base + 50
	}
}

func charSum(s string) int {
	sum := 0
	for _, b := range []byte(s) {
		sum += int(b)
	}
	return sum
}
