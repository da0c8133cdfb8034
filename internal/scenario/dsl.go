package scenario

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"

	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
	"github.com/louisbranch/skirmish-engine/internal/turn"
)

const (
	scenarioTypeName = "scenario"
	roundTypeName    = "round"
)

// roundBuilder backs the round userdata; its intent methods append to
// the owning scenario's round.
type roundBuilder struct {
	scenario *Scenario
	index    int
}

// Load compiles a Lua scenario script. Script failures, including
// argument errors raised by the registered methods, surface as
// SCENARIO_INVALID.
func Load(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, apperrors.Newf(apperrors.CodeScenarioInvalid, "load scenario %s: %v", path, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, apperrors.Newf(apperrors.CodeScenarioInvalid, "run scenario %s: %v", path, err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, apperrors.Newf(apperrors.CodeScenarioInvalid, "scenario %s must return a Scenario", path)
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	sc, ok := ud.(*Scenario)
	if !ok || sc == nil {
		return nil, apperrors.Newf(apperrors.CodeScenarioInvalid, "scenario %s returned an invalid Scenario", path)
	}
	if strings.TrimSpace(sc.Name) == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

func registerTypes(state *lua.State) {
	registerScenarioType(state)
	registerRoundType(state)
	registerConstructor(state)
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerRoundType(state *lua.State) {
	lua.NewMetaTable(state, roundTypeName)
	state.NewTable()
	lua.SetFunctions(state, roundMethods(), 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	sc := &Scenario{Name: name}
	state.PushUserData(sc)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "seed", Function: scenarioSeed},
	{Name: "map", Function: scenarioMap},
	{Name: "terrain", Function: scenarioTerrain},
	{Name: "elevation", Function: scenarioElevation},
	{Name: "actor", Function: scenarioActor},
	{Name: "round", Function: scenarioRound},
}

func scenarioSeed(state *lua.State) int {
	sc := checkScenario(state)
	sc.Seed = int64(lua.CheckInteger(state, 2))
	return 0
}

func scenarioMap(state *lua.State) int {
	sc := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	opts := tableToMap(state, 2)

	if sc.Map != nil {
		lua.Errorf(state, "map is already declared")
		return 0
	}
	width, okWidth := readInt(opts, "width")
	height, okHeight := readInt(opts, "height")
	if !okWidth || !okHeight || width <= 0 || height <= 0 {
		lua.Errorf(state, "map requires positive width and height")
		return 0
	}
	tag, _ := opts["terrain"].(string)
	sc.Map = &MapSpec{Width: width, Height: height, Default: tag}
	return 0
}

func scenarioTerrain(state *lua.State) int {
	sc := checkScenario(state)
	x := lua.CheckInteger(state, 2)
	y := lua.CheckInteger(state, 3)
	tag := lua.CheckString(state, 4)

	if sc.Map == nil {
		lua.Errorf(state, "terrain requires a map declaration first")
		return 0
	}
	sc.Map.Terrain = append(sc.Map.Terrain, TerrainSpec{X: x, Y: y, Tag: tag})
	return 0
}

func scenarioElevation(state *lua.State) int {
	sc := checkScenario(state)
	x := lua.CheckInteger(state, 2)
	y := lua.CheckInteger(state, 3)
	feet := lua.CheckInteger(state, 4)

	if sc.Map == nil {
		lua.Errorf(state, "elevation requires a map declaration first")
		return 0
	}
	sc.Map.Elevations = append(sc.Map.Elevations, ElevationSpec{X: x, Y: y, Feet: feet})
	return 0
}

func scenarioActor(state *lua.State) int {
	sc := checkScenario(state)
	name := lua.CheckString(state, 2)
	opts := optionalTable(state, 3)

	for _, actor := range sc.Actors {
		if actor.Name == name {
			lua.Errorf(state, "actor %s is already declared", name)
			return 0
		}
	}
	sc.Actors = append(sc.Actors, ActorSpec{Name: name, Opts: opts})
	return 0
}

func scenarioRound(state *lua.State) int {
	sc := checkScenario(state)
	sc.Rounds = append(sc.Rounds, RoundSpec{})
	state.PushUserData(&roundBuilder{scenario: sc, index: len(sc.Rounds) - 1})
	lua.SetMetaTableNamed(state, roundTypeName)
	return 1
}

// roundMethods exposes one method per action kind. Every method takes
// the actor name and an optional parameter table, appends the intent,
// and returns the round for chaining.
func roundMethods() []lua.RegistryFunction {
	kinds := []turn.Kind{
		turn.KindAttack,
		turn.KindSpell,
		turn.KindSkillCheck,
		turn.KindMove,
		turn.KindFullRound,
		turn.KindBullRush,
		turn.KindGrapple,
		turn.KindUseItem,
		turn.KindApplyCondition,
		turn.KindFree,
		turn.KindImmediate,
		turn.KindReadied,
		turn.KindDelayed,
	}
	methods := make([]lua.RegistryFunction, 0, len(kinds))
	for _, kind := range kinds {
		methods = append(methods, lua.RegistryFunction{Name: string(kind), Function: intentMethod(kind)})
	}
	return methods
}

func intentMethod(kind turn.Kind) lua.Function {
	return func(state *lua.State) int {
		builder := checkRound(state)
		actor := lua.CheckString(state, 2)
		params := optionalTable(state, 3)

		round := &builder.scenario.Rounds[builder.index]
		round.Intents = append(round.Intents, turn.Intent{
			Actor:  actor,
			Type:   string(kind),
			Params: params,
		})
		state.PushValue(1)
		return 1
	}
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if sc, ok := ud.(*Scenario); ok && sc != nil {
		return sc
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func checkRound(state *lua.State) *roundBuilder {
	ud := lua.CheckUserData(state, 1, roundTypeName)
	if builder, ok := ud.(*roundBuilder); ok && builder != nil {
		return builder
	}
	lua.ArgumentError(state, 1, "round expected")
	return nil
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}

func readInt(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.Mod(v, 1) == 0 {
			return int(v), true
		}
	}
	return 0, false
}
