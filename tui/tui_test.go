package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/config"
	"github.com/goflix/goflix/filesystem"
	"github.com/goflix/goflix/player"
	"github.com/goflix/goflix/session"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	if err := config.Setup(); err != nil {
		panic(err)
	}
}

// instantEngine answers every command immediately.
type instantEngine struct{}

func (instantEngine) Load(context.Context, string, player.LoadOptions) (player.Status, error) {
	return player.Status{Loaded: true, Playing: true, DurationMillis: 60_000}, nil
}
func (instantEngine) Play(context.Context) error { return nil }
func (instantEngine) Pause(context.Context) error { return nil }
func (instantEngine) SetPosition(context.Context, int64) error { return nil }
func (instantEngine) SetVolume(context.Context, float64) error { return nil }
func (instantEngine) Unload(context.Context) error { return nil }
func (instantEngine) Observe(func(player.Status), func(error)) func() { return func() {} }
func (instantEngine) Status(context.Context) (player.Status, error) {
	return player.Status{Loaded: true, Playing: true, DurationMillis: 60_000}, nil
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(b *statefulBubble, text string) {
	for _, r := range text {
		b.Update(keyPress(string(r)))
	}
}

func newTestBubble() *statefulBubble {
	b := newBubble(&Options{
		Engine: func() player.Engine { return instantEngine{} },
	})
	b.newState(loadingState)
	b.resize(100, 40)
	return b
}

func TestNavigation(t *testing.T) {
	Convey("Given a bubble waiting for the catalog", t, func() {
		b := newTestBubble()

		Convey("When the catalog is loaded", func() {
			b.Update(catalog.Default())

			Convey("Then the categories should be listed on the home screen", func() {
				So(b.state, ShouldEqual, homeState)
				So(b.categoriesC.Items(), ShouldHaveLength, len(catalog.Default().Categories))
				So(b.View(), ShouldContainSubstring, "Trending Now")
			})

			Convey("And a category is opened", func() {
				b.Update(keyPress("enter"))

				Convey("Then its titles should be listed", func() {
					So(b.state, ShouldEqual, titlesState)
					So(b.titlesC.Title, ShouldEqual, "Trending Now")
					So(b.titlesC.Items(), ShouldNotBeEmpty)
				})

				Convey("And going back", func() {
					b.Update(keyPress("esc"))
					Convey("Then the home screen should be shown again", func() {
						So(b.state, ShouldEqual, homeState)
					})
				})
			})
		})

		Convey("When loading the catalog fails", func() {
			b.Update(context.DeadlineExceeded)
			Convey("Then the error screen should describe it", func() {
				So(b.state, ShouldEqual, errorState)
				So(b.View(), ShouldContainSubstring, "deadline exceeded")
			})
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given the search screen", t, func() {
		b := newTestBubble()
		b.Update(catalog.Default())
		b.Update(keyPress("/"))
		So(b.state, ShouldEqual, searchState)

		Convey("When a known title is typed", func() {
			typeText(b, "bunny")

			Convey("Then it should be among the results", func() {
				items := b.resultsC.Items()
				So(items, ShouldHaveLength, 1)
				So(items[0].FilterValue(), ShouldEqual, "Big Buck Bunny")
			})
		})

		Convey("When nothing matches literally", func() {
			typeText(b, "bgbny")

			Convey("Then close titles should be suggested", func() {
				So(b.resultsC.Items(), ShouldBeEmpty)
				So(b.searchSuggestions, ShouldContain, "Big Buck Bunny")
				So(b.View(), ShouldContainSubstring, "Did you mean")
			})
		})

		Convey("When the search is left", func() {
			typeText(b, "sintel")
			b.Update(keyPress("esc"))

			Convey("Then the query should be cleared", func() {
				So(b.state, ShouldEqual, homeState)
				So(b.searchC.Value(), ShouldBeEmpty)
			})
		})
	})
}

func TestPlayerView(t *testing.T) {
	Convey("Given the player screen", t, func() {
		b := newTestBubble()
		b.selectedTitle = catalog.Title{ID: "1", Title: "Sintel"}
		b.setState(playerState)

		Convey("When the session is loading", func() {
			b.snapshot = session.Snapshot{Phase: session.Loading, Loading: true}
			Convey("Then a loading indicator should be shown", func() {
				So(b.View(), ShouldContainSubstring, "Loading video...")
			})
		})

		Convey("When the session is ready without comments", func() {
			b.snapshot = session.Snapshot{
				Phase:           session.Ready,
				Playing:         true,
				ControlsVisible: true,
				Volume:          0.8,
				Playback:        player.Status{Loaded: true, PositionMillis: 65_000, DurationMillis: 600_000},
			}
			view := b.View()

			Convey("Then playback progress and controls should be shown", func() {
				So(view, ShouldContainSubstring, "Sintel")
				So(view, ShouldContainSubstring, "Playing")
				So(view, ShouldContainSubstring, "1:05 / 10:00")
				So(view, ShouldContainSubstring, "80%")
				So(view, ShouldContainSubstring, "No comments yet.")
			})
		})

		Convey("When the session has comments", func() {
			b.snapshot = session.Snapshot{
				Phase:    session.Ready,
				Comments: []session.Comment{{ID: "1", Author: "ana", Text: "great ending"}},
			}

			Convey("Then they should be listed", func() {
				So(b.View(), ShouldContainSubstring, "great ending")
				So(b.View(), ShouldContainSubstring, "Comments (1)")
			})

			Convey("And the player is fullscreen", func() {
				b.snapshot.Fullscreen = true
				Convey("Then the comments should be hidden", func() {
					So(b.View(), ShouldNotContainSubstring, "great ending")
				})
			})
		})

		Convey("When the load failed", func() {
			b.snapshot = session.Snapshot{Phase: session.Error, LastError: mo.Some("Error loading video")}
			Convey("Then a retry hint should be shown", func() {
				view := b.View()
				So(view, ShouldContainSubstring, "Error loading video")
				So(strings.Contains(view, "retry"), ShouldBeTrue)
			})
		})
	})
}

func TestPlayerSession(t *testing.T) {
	Convey("Given a running player session", t, func() {
		b := newTestBubble()
		b.Update(catalog.Default())
		title := catalog.Default().Categories[0].Titles[0]

		cmd := b.play(title)
		So(cmd, ShouldNotBeNil)
		So(b.state, ShouldEqual, playerState)
		So(b.controller, ShouldNotBeNil)
		So(b.controller.StartSession(context.Background(), title.VideoURL), ShouldBeNil)
		b.snapshot = b.controller.Snapshot()
		Reset(func() {
			if teardown := b.closeSession(); teardown != nil {
				teardown()
			}
		})

		Convey("When the seek keys are pressed repeatedly", func() {
			b.Update(keyPress("right"))
			first := b.scrubGen
			b.Update(keyPress("right"))

			Convey("Then the presses should accumulate into one target", func() {
				target, ok := b.scrub.Get()
				So(ok, ShouldBeTrue)
				So(target, ShouldEqual, 2*config.SeekStep().Milliseconds())
			})

			Convey("Then only the latest press should commit", func() {
				So(b.commitScrub(first), ShouldBeNil)
				So(b.commitScrub(b.scrubGen), ShouldNotBeNil)
				So(b.scrub.IsPresent(), ShouldBeFalse)
			})
		})

		Convey("When scrubbing back from the start", func() {
			b.Update(keyPress("left"))
			Convey("Then the target should stop at zero", func() {
				So(b.scrub.MustGet(), ShouldEqual, 0)
			})
		})

		Convey("When a comment is posted", func() {
			b.Update(keyPress("c"))
			So(b.commenting, ShouldBeTrue)
			typeText(b, "loved it")
			b.Update(keyPress("enter"))

			Convey("Then it should show up in the comment list", func() {
				So(b.commenting, ShouldBeFalse)
				last := b.snapshot.Comments[len(b.snapshot.Comments)-1]
				So(last.Text, ShouldEqual, "loved it")
			})
		})

		Convey("When a stale session signals", func() {
			old := b.closed
			b.play(title)
			_, cmd := b.Update(snapshotMsg{done: old})

			Convey("Then it should be ignored", func() {
				So(cmd, ShouldBeNil)
			})
		})

		Convey("When the player is left", func() {
			b.Update(keyPress("esc"))
			Convey("Then the session should be closed", func() {
				So(b.controller, ShouldBeNil)
				So(b.state, ShouldEqual, homeState)
			})
		})
	})
}
