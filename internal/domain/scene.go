package domain

import (
	"encoding/json"
	"fmt"
)

// Scene identifies one screen of the game.
type Scene uint8

const (
	SceneWelcome Scene = iota
	SceneLearn
	SceneLevel1
	SceneLevel2
	SceneLevel3
	SceneLevel4
	SceneLevel5
	SceneLevel6
	SceneVictory
)

// LevelCount is the number of matching levels between learn and victory.
const LevelCount = 6

var sceneNames = [...]string{
	SceneWelcome: "welcome",
	SceneLearn:   "learn",
	SceneLevel1:  "level1",
	SceneLevel2:  "level2",
	SceneLevel3:  "level3",
	SceneLevel4:  "level4",
	SceneLevel5:  "level5",
	SceneLevel6:  "level6",
	SceneVictory: "victory",
}

func (s Scene) String() string {
	if int(s) < len(sceneNames) {
		return sceneNames[s]
	}
	return fmt.Sprintf("scene(%d)", uint8(s))
}

// MarshalJSON encodes the scene by name.
func (s Scene) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseScene resolves a scene name.
func ParseScene(name string) (Scene, bool) {
	for i, n := range sceneNames {
		if n == name {
			return Scene(i), true
		}
	}
	return SceneWelcome, false
}

// LevelScene returns the scene of level n (1-based).
func LevelScene(n int) (Scene, bool) {
	if n < 1 || n > LevelCount {
		return SceneWelcome, false
	}
	return SceneLevel1 + Scene(n-1), true
}

// LevelNumber returns the level number of a level scene.
func (s Scene) LevelNumber() (int, bool) {
	if s < SceneLevel1 || s > SceneLevel6 {
		return 0, false
	}
	return int(s-SceneLevel1) + 1, true
}

type transition struct {
	next, back Scene
}

var transitions = map[Scene]transition{
	SceneWelcome: {next: SceneLearn, back: SceneWelcome},
	SceneLearn:   {next: SceneLevel1, back: SceneWelcome},
	SceneLevel1:  {next: SceneLevel2, back: SceneLearn},
	SceneLevel2:  {next: SceneLevel3, back: SceneLevel1},
	SceneLevel3:  {next: SceneLevel4, back: SceneLevel2},
	SceneLevel4:  {next: SceneLevel5, back: SceneLevel3},
	SceneLevel5:  {next: SceneLevel6, back: SceneLevel4},
	SceneLevel6:  {next: SceneVictory, back: SceneLevel5},
	// replay / learn again
	SceneVictory: {next: SceneWelcome, back: SceneLearn},
}

// Navigator holds the current scene and owns the session's ScoreState.
// It keeps no history; going back is a forward move to the named prior scene.
type Navigator struct {
	scene Scene
	score ScoreState
}

func NewNavigator() *Navigator {
	return &Navigator{scene: SceneWelcome, score: NewScoreState()}
}

// Scene returns the current scene.
func (n *Navigator) Scene() Scene {
	return n.scene
}

// Score returns a copy of the current score state.
func (n *Navigator) Score() ScoreState {
	return n.score.Clone()
}

// GoTo moves to scene. Entering the welcome scene restarts the session.
func (n *Navigator) GoTo(scene Scene) {
	if _, ok := transitions[scene]; !ok {
		scene = SceneWelcome
	}
	if scene == SceneWelcome {
		n.score.Reset()
	}
	n.scene = scene
}

// GoToName moves to the named scene; unknown names fall back to welcome.
func (n *Navigator) GoToName(name string) Scene {
	scene, _ := ParseScene(name)
	n.GoTo(scene)
	return n.scene
}

// NextScene returns where Next would go without moving.
func (n *Navigator) NextScene() Scene {
	return transitions[n.scene].next
}

// BackScene returns where Back would go without moving.
func (n *Navigator) BackScene() Scene {
	return transitions[n.scene].back
}

func (n *Navigator) Next() Scene {
	n.GoTo(n.NextScene())
	return n.scene
}

func (n *Navigator) Back() Scene {
	n.GoTo(n.BackScene())
	return n.scene
}

// Merge folds a partial update into the score state.
func (n *Navigator) Merge(u ScoreUpdate) {
	n.score.Merge(u)
}
