package turn

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/skirmish-engine/internal/combatant"
	"github.com/louisbranch/skirmish-engine/internal/condition"
	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
	"github.com/louisbranch/skirmish-engine/internal/grid"
	"github.com/louisbranch/skirmish-engine/internal/resolve"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

// RoundSink receives each finished round for durable audit: the stamped
// results in dispatch order and the dice entries the round consumed,
// initiative rolls included.
type RoundSink interface {
	RecordRound(ctx context.Context, turn int, results []ActionResult, rolls []dice.Entry) error
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Seed feeds the round roller. Every die of every round flows from
	// this single sequential source.
	Seed int64
	// Rules is the loaded, validated ruleset. Required.
	Rules *ruleset.Ruleset
	// Map is the battlefield. Optional: without it move actions resolve
	// to empty routes.
	Map *grid.Map
	// Combatants seeds the roster.
	Combatants []*combatant.Sheet
	// Sink, when set, receives every resolved round.
	Sink RoundSink
}

// Manager orchestrates rounds: it accepts intents into the current
// Round, computes initiative, dispatches the ordered actions through
// the resolvers, stamps and collects the results, and advances
// participating actors afterwards.
//
// A Manager is not safe for concurrent use. Determinism requires whole
// rounds to be serialized; embed accordingly.
type Manager struct {
	rules     *ruleset.Ruleset
	battleMap *grid.Map
	paths     *grid.Pathfinder
	roster    map[string]*combatant.Sheet
	dice      *dice.Roller
	sink      RoundSink
	tracer    trace.Tracer

	turn         int
	nextActionID int
	round        *Round
}

// NewManager builds a Manager from the config.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Rules == nil {
		return nil, fmt.Errorf("turn: ruleset is required")
	}

	m := &Manager{
		rules:     cfg.Rules,
		battleMap: cfg.Map,
		roster:    make(map[string]*combatant.Sheet),
		dice:      dice.NewRoller(cfg.Seed),
		sink:      cfg.Sink,
		tracer:    otel.Tracer("github.com/louisbranch/skirmish-engine/internal/turn"),
		turn:      1,
		round:     NewRound(),
	}
	if cfg.Map != nil {
		m.paths = grid.NewPathfinder(cfg.Map, cfg.Rules.Terrain)
	}
	for _, sheet := range cfg.Combatants {
		if err := m.AddCombatant(sheet); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddCombatant registers a sheet in the roster. Names must be unique;
// intents reference actors by name.
func (m *Manager) AddCombatant(sheet *combatant.Sheet) error {
	if sheet == nil || sheet.Name == "" {
		return fmt.Errorf("turn: combatant needs a name")
	}
	if _, exists := m.roster[sheet.Name]; exists {
		return fmt.Errorf("turn: duplicate combatant %q", sheet.Name)
	}
	m.roster[sheet.Name] = sheet
	return nil
}

// Combatant returns the named sheet.
func (m *Manager) Combatant(name string) (*combatant.Sheet, error) {
	sheet, ok := m.roster[name]
	if !ok {
		return nil, unknownActor(name, "actor")
	}
	return sheet, nil
}

// Turn returns the current turn number, starting at 1.
func (m *Manager) Turn() int {
	return m.turn
}

// Dice exposes the shared round roller, read-only by convention: the
// log is the replay record.
func (m *Manager) Dice() *dice.Roller {
	return m.dice
}

// Submit validates an intent and inserts the decoded action into the
// current round. Unknown actors, unknown action types, unresolvable
// weapon/spell/skill/condition names, and slot violations each fail
// the single insertion with a coded error; nothing is recorded and no
// dice are consumed.
func (m *Manager) Submit(intent Intent) error {
	action, err := decodeIntent(intent)
	if err != nil {
		return err
	}
	if _, ok := m.roster[action.Actor]; !ok {
		return unknownActor(action.Actor, "actor")
	}

	switch action.Kind {
	case KindAttack:
		if _, ok := m.roster[action.Target]; !ok {
			return unknownActor(action.Target, "target")
		}
		if action.Weapon != "" {
			if _, err := m.rules.Weapon(action.Weapon); err != nil {
				return err
			}
		}
	case KindSpell:
		if _, ok := m.roster[action.Target]; !ok {
			return unknownActor(action.Target, "target")
		}
		if _, err := m.rules.Spell(action.Spell); err != nil {
			return err
		}
	case KindSkillCheck:
		if _, err := m.rules.Skill(action.Skill); err != nil {
			return err
		}
	case KindBullRush, KindGrapple:
		if _, ok := m.roster[action.Target]; !ok {
			return unknownActor(action.Target, "target")
		}
	case KindApplyCondition:
		if action.Target != "" {
			if _, ok := m.roster[action.Target]; !ok {
				return unknownActor(action.Target, "target")
			}
		}
		if _, err := m.rules.Condition(action.Condition); err != nil {
			return err
		}
	}

	return m.round.Insert(action)
}

// Resolve executes the current round: initiative is rolled for every
// participating actor (in lexicographic actor order, so replays see the
// same dice), actions dispatch in initiative order through the executor,
// every result is stamped with the turn number and a monotonic action
// id, participants advance one round, and the sink (when configured)
// records the round. The manager then starts a fresh round and
// increments the turn counter.
func (m *Manager) Resolve(ctx context.Context) ([]ActionResult, error) {
	ctx, span := m.tracer.Start(ctx, "turn.resolve")
	defer span.End()

	round := m.round
	round.markResolved()
	m.round = NewRound()

	logStart := m.dice.Len()
	rctx := &resolve.Context{Dice: m.dice, Rules: m.rules}

	participants := round.Actors()
	entries := make([]initiativeEntry, 0, len(participants))
	for _, name := range participants {
		dexMod := m.roster[name].AbilityMod(combatant.DEX)
		entries = append(entries, initiativeEntry{
			actor:   name,
			score:   m.dice.D20() + dexMod,
			dexMod:  dexMod,
			delayed: round.HasDelayed(name),
		})
	}

	results := make([]ActionResult, 0, round.ActionCount())
	for _, entry := range orderInitiative(entries) {
		slots := round.actors[entry.actor]
		for _, action := range slots.sequence(entry.delayed) {
			result, err := m.execute(rctx, action)
			if err != nil {
				return nil, fmt.Errorf("turn %d: execute %s for %s: %w", m.turn, action.Kind, action.Actor, err)
			}
			m.nextActionID++
			results = append(results, result.Stamped(m.turn, m.nextActionID))
		}
	}

	for _, name := range participants {
		sheet := m.roster[name]
		sheet.TickConditions()
		sheet.RegenerateSlots(m.rules.Regen.SpellSlotsPerRound)
	}

	rolls := m.dice.Log()[logStart:]
	span.SetAttributes(
		attribute.Int("turn.number", m.turn),
		attribute.Int("turn.actions", len(results)),
		attribute.Int("turn.dice_consumed", len(rolls)),
	)

	if m.sink != nil {
		if err := m.sink.RecordRound(ctx, m.turn, results, rolls); err != nil {
			return nil, fmt.Errorf("turn %d: record round: %w", m.turn, err)
		}
	}

	m.turn++
	return results, nil
}

// execute is the single dispatch switch over the closed action set.
func (m *Manager) execute(rctx *resolve.Context, action Action) (ActionResult, error) {
	switch action.Kind {
	case KindAttack:
		return m.executeAttack(rctx, action)
	case KindSpell:
		return m.executeSpell(rctx, action)
	case KindSkillCheck:
		return m.executeSkillCheck(rctx, action)
	case KindMove:
		return m.executeMove(action), nil
	case KindBullRush, KindGrapple:
		return m.executeManeuver(rctx, action), nil
	case KindUseItem:
		return ActionResult{
			Kind:  action.Kind,
			Actor: action.Actor,
			Data:  map[string]any{"item": action.Item},
			Log:   fmt.Sprintf("%s uses %s", action.Actor, action.Item),
		}, nil
	case KindApplyCondition:
		return m.executeApplyCondition(action)
	case KindFullRound, KindFree, KindImmediate, KindReadied, KindDelayed:
		return auditResult(action), nil
	default:
		return ActionResult{}, fmt.Errorf("unhandled action kind %q", action.Kind)
	}
}

func (m *Manager) executeAttack(rctx *resolve.Context, action Action) (ActionResult, error) {
	res, err := resolve.ResolveAttack(rctx, resolve.AttackRequest{
		Attacker: m.roster[action.Actor],
		Defender: m.roster[action.Target],
		Weapon:   action.Weapon,
		Touch:    action.Touch,
	})
	if err != nil {
		return ActionResult{}, err
	}

	data := map[string]any{
		"natural_roll":        res.NaturalRoll,
		"hit":                 res.Hit,
		"critical":            res.Critical,
		"concealment_applied": res.ConcealmentApplied,
		"damage":              res.Damage,
	}
	weapon := action.Weapon
	if weapon == "" {
		weapon = "unarmed"
	} else {
		data["weapon"] = action.Weapon
	}
	if action.Touch {
		data["touch"] = true
	}

	outcome := "misses"
	switch {
	case res.ConcealmentApplied:
		outcome = "misses against concealment"
	case res.Critical:
		outcome = fmt.Sprintf("critically hits for %d", res.Damage)
	case res.Hit:
		outcome = fmt.Sprintf("hits for %d", res.Damage)
	}

	return ActionResult{
		Kind:   action.Kind,
		Actor:  action.Actor,
		Target: action.Target,
		Data:   data,
		Log:    fmt.Sprintf("%s attacks %s (%s): %s", action.Actor, action.Target, weapon, outcome),
		Debug:  res.Debug,
	}, nil
}

func (m *Manager) executeSpell(rctx *resolve.Context, action Action) (ActionResult, error) {
	caster := m.roster[action.Actor]
	spell, err := m.rules.Spell(action.Spell)
	if err != nil {
		return ActionResult{}, err
	}

	// Slot accounting is the action layer's job. Running dry is an
	// expected outcome, audited rather than raised.
	if !caster.SpendSlot(spell.Level) {
		return ActionResult{
			Kind:   action.Kind,
			Actor:  action.Actor,
			Target: action.Target,
			Data: map[string]any{
				"spell":   action.Spell,
				"level":   spell.Level,
				"success": false,
				"reason":  "insufficient_spell_slots",
			},
			Log: fmt.Sprintf("%s fails to cast %s: no level %d slot remains", action.Actor, action.Spell, spell.Level),
		}, nil
	}

	res, err := resolve.ResolveSpell(rctx, resolve.SpellRequest{
		Caster: caster,
		Target: m.roster[action.Target],
		Spell:  action.Spell,
	})
	if err != nil {
		return ActionResult{}, err
	}

	return ActionResult{
		Kind:   action.Kind,
		Actor:  action.Actor,
		Target: action.Target,
		Data: map[string]any{
			"spell":   action.Spell,
			"level":   res.Level,
			"success": true,
			"damage":  res.Damage,
		},
		Log: fmt.Sprintf("%s casts %s at %s for %d", action.Actor, action.Spell, action.Target, res.Damage),
	}, nil
}

func (m *Manager) executeSkillCheck(rctx *resolve.Context, action Action) (ActionResult, error) {
	res, err := resolve.ResolveSkillCheck(rctx, resolve.SkillCheckRequest{
		Actor: m.roster[action.Actor],
		Skill: action.Skill,
		DC:    action.DC,
	})
	if err != nil {
		return ActionResult{}, err
	}

	outcome := fmt.Sprintf("fails by %d", -res.Margin)
	if res.Success {
		outcome = fmt.Sprintf("succeeds by %d", res.Margin)
	}

	return ActionResult{
		Kind:  action.Kind,
		Actor: action.Actor,
		Data: map[string]any{
			"skill":    action.Skill,
			"roll":     res.Roll,
			"modifier": res.Modifier,
			"total":    res.Total,
			"dc":       res.DC,
			"success":  res.Success,
			"margin":   res.Margin,
		},
		Log: fmt.Sprintf("%s attempts %s (DC %d): %s", action.Actor, action.Skill, action.DC, outcome),
	}, nil
}

func (m *Manager) executeManeuver(rctx *resolve.Context, action Action) ActionResult {
	attacker := m.roster[action.Actor]
	defender := m.roster[action.Target]

	var res resolve.ManeuverResult
	if action.Kind == KindBullRush {
		res = resolve.ResolveBullRush(rctx, attacker, defender)
	} else {
		res = resolve.ResolveGrapple(rctx, attacker, defender)
	}

	data := map[string]any{
		"maneuver": res.Maneuver,
		"cmb":      res.CMB,
		"cmd":      res.CMD,
		"success":  res.Success,
		"margin":   res.Margin,
	}
	var log string
	switch {
	case action.Kind == KindBullRush && res.Success:
		data["push_distance"] = res.PushDistance
		log = fmt.Sprintf("%s bull rushes %s back %d", action.Actor, action.Target, res.PushDistance)
	case action.Kind == KindBullRush:
		log = fmt.Sprintf("%s fails to bull rush %s", action.Actor, action.Target)
	case res.Success:
		log = fmt.Sprintf("%s grapples %s", action.Actor, action.Target)
	default:
		log = fmt.Sprintf("%s fails to grapple %s", action.Actor, action.Target)
	}

	return ActionResult{
		Kind:   action.Kind,
		Actor:  action.Actor,
		Target: action.Target,
		Data:   data,
		Log:    log,
	}
}

func (m *Manager) executeMove(action Action) ActionResult {
	sheet := m.roster[action.Actor]
	from := sheet.Position

	if m.paths == nil {
		return ActionResult{
			Kind:  action.Kind,
			Actor: action.Actor,
			Data:  map[string]any{"from": from, "to": action.Destination, "moved": false, "cost": 0},
			Log:   fmt.Sprintf("%s cannot move: no battlefield map", action.Actor),
		}
	}

	route := m.paths.FindPath(from, action.Destination)
	moved := len(route.Steps) > 0
	if moved {
		sheet.Position = action.Destination
	}

	data := map[string]any{
		"from":  from,
		"to":    action.Destination,
		"moved": moved,
		"path":  route.Steps,
		"cost":  route.Cost,
	}
	if len(route.Checks) > 0 {
		data["checks"] = route.Checks
	}

	log := fmt.Sprintf("%s finds no path to (%d,%d)", action.Actor, action.Destination.X, action.Destination.Y)
	if moved {
		log = fmt.Sprintf("%s moves from (%d,%d) to (%d,%d) for %d", action.Actor, from.X, from.Y,
			action.Destination.X, action.Destination.Y, route.Cost)
	}

	return ActionResult{
		Kind:  action.Kind,
		Actor: action.Actor,
		Data:  data,
		Log:   log,
	}
}

func (m *Manager) executeApplyCondition(action Action) (ActionResult, error) {
	targetName := action.Target
	if targetName == "" {
		targetName = action.Actor
	}
	def, err := m.rules.Condition(action.Condition)
	if err != nil {
		return ActionResult{}, err
	}

	m.roster[targetName].Afflict(condition.New(action.Condition, action.Rounds, def))

	return ActionResult{
		Kind:   action.Kind,
		Actor:  action.Actor,
		Target: targetName,
		Data: map[string]any{
			"condition": action.Condition,
			"rounds":    action.Rounds,
		},
		Log: fmt.Sprintf("%s applies %s to %s for %d rounds", action.Actor, action.Condition, targetName, action.Rounds),
	}, nil
}

// auditResult records the generic kinds that carry no resolver: the
// scheduling itself is their effect.
func auditResult(action Action) ActionResult {
	verbs := map[Kind]string{
		KindFullRound: "spends the full round",
		KindFree:      "takes a free action",
		KindImmediate: "acts out of turn",
		KindReadied:   "triggers a readied action",
		KindDelayed:   "delays",
	}

	var data map[string]any
	log := fmt.Sprintf("%s %s", action.Actor, verbs[action.Kind])
	if action.Note != "" {
		data = map[string]any{"note": action.Note}
		log = fmt.Sprintf("%s: %s", log, action.Note)
	}

	return ActionResult{
		Kind:  action.Kind,
		Actor: action.Actor,
		Data:  data,
		Log:   log,
	}
}

func unknownActor(name, role string) error {
	return apperrors.WithMetadata(apperrors.CodeTurnUnknownActor,
		"unknown actor", map[string]string{"name": name, "role": role})
}
