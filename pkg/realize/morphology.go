package realize

import (
	"strings"

	"github.com/kittclouds/telling/pkg/world"
)

// ============================================================================
// Irregular verbs
// ============================================================================

// irregularVerbs maps a lemma to preterite, past participle and, when it
// is not regular, present participle. Consonant doubling is not derived
// phonologically, so doubling verbs are listed here too.
var irregularVerbs = map[string][3]string{
	"arise":      {"arose", "arisen", ""},
	"awake":      {"awoke", "awoken", ""},
	"be":         {"was", "been", "being"},
	"bear":       {"bore", "borne", ""},
	"beat":       {"beat", "beaten", ""},
	"become":     {"became", "become", ""},
	"begin":      {"began", "begun", "beginning"},
	"bend":       {"bent", "bent", ""},
	"bet":        {"bet", "bet", "betting"},
	"bind":       {"bound", "bound", ""},
	"bite":       {"bit", "bitten", ""},
	"bleed":      {"bled", "bled", ""},
	"blow":       {"blew", "blown", ""},
	"break":      {"broke", "broken", ""},
	"bring":      {"brought", "brought", ""},
	"build":      {"built", "built", ""},
	"buy":        {"bought", "bought", ""},
	"catch":      {"caught", "caught", ""},
	"choose":     {"chose", "chosen", ""},
	"cling":      {"clung", "clung", ""},
	"come":       {"came", "come", ""},
	"cost":       {"cost", "cost", ""},
	"creep":      {"crept", "crept", ""},
	"cut":        {"cut", "cut", "cutting"},
	"deal":       {"dealt", "dealt", ""},
	"dig":        {"dug", "dug", "digging"},
	"dive":       {"dove", "dived", ""},
	"do":         {"did", "done", ""},
	"draw":       {"drew", "drawn", ""},
	"drink":      {"drank", "drunk", ""},
	"drive":      {"drove", "driven", ""},
	"eat":        {"ate", "eaten", ""},
	"fall":       {"fell", "fallen", ""},
	"feed":       {"fed", "fed", ""},
	"feel":       {"felt", "felt", ""},
	"fight":      {"fought", "fought", ""},
	"find":       {"found", "found", ""},
	"flee":       {"fled", "fled", ""},
	"fling":      {"flung", "flung", ""},
	"fly":        {"flew", "flown", ""},
	"forbid":     {"forbade", "forbidden", "forbidding"},
	"forget":     {"forgot", "forgotten", "forgetting"},
	"forgive":    {"forgave", "forgiven", ""},
	"freeze":     {"froze", "frozen", ""},
	"get":        {"got", "gotten", "getting"},
	"give":       {"gave", "given", ""},
	"go":         {"went", "gone", ""},
	"grind":      {"ground", "ground", ""},
	"grow":       {"grew", "grown", ""},
	"hang":       {"hung", "hung", ""},
	"have":       {"had", "had", ""},
	"hear":       {"heard", "heard", ""},
	"hide":       {"hid", "hidden", ""},
	"hit":        {"hit", "hit", "hitting"},
	"hold":       {"held", "held", ""},
	"hurt":       {"hurt", "hurt", ""},
	"keep":       {"kept", "kept", ""},
	"kneel":      {"knelt", "knelt", ""},
	"know":       {"knew", "known", ""},
	"lay":        {"laid", "laid", ""},
	"lead":       {"led", "led", ""},
	"leave":      {"left", "left", ""},
	"lend":       {"lent", "lent", ""},
	"let":        {"let", "let", "letting"},
	"lie":        {"lay", "lain", "lying"},
	"light":      {"lit", "lit", ""},
	"lose":       {"lost", "lost", ""},
	"make":       {"made", "made", ""},
	"mean":       {"meant", "meant", ""},
	"meet":       {"met", "met", ""},
	"pay":        {"paid", "paid", ""},
	"put":        {"put", "put", "putting"},
	"quit":       {"quit", "quit", "quitting"},
	"read":       {"read", "read", ""},
	"ride":       {"rode", "ridden", ""},
	"ring":       {"rang", "rung", ""},
	"rise":       {"rose", "risen", ""},
	"run":        {"ran", "run", "running"},
	"say":        {"said", "said", ""},
	"see":        {"saw", "seen", ""},
	"seek":       {"sought", "sought", ""},
	"sell":       {"sold", "sold", ""},
	"send":       {"sent", "sent", ""},
	"set":        {"set", "set", "setting"},
	"shake":      {"shook", "shaken", ""},
	"shine":      {"shone", "shone", ""},
	"shoot":      {"shot", "shot", ""},
	"show":       {"showed", "shown", ""},
	"shut":       {"shut", "shut", "shutting"},
	"sing":       {"sang", "sung", ""},
	"sink":       {"sank", "sunk", ""},
	"sit":        {"sat", "sat", "sitting"},
	"sleep":      {"slept", "slept", ""},
	"slide":      {"slid", "slid", ""},
	"speak":      {"spoke", "spoken", ""},
	"spend":      {"spent", "spent", ""},
	"spin":       {"spun", "spun", "spinning"},
	"spit":       {"spat", "spat", "spitting"},
	"split":      {"split", "split", "splitting"},
	"spread":     {"spread", "spread", ""},
	"spring":     {"sprang", "sprung", ""},
	"stand":      {"stood", "stood", ""},
	"steal":      {"stole", "stolen", ""},
	"stick":      {"stuck", "stuck", ""},
	"sting":      {"stung", "stung", ""},
	"strike":     {"struck", "struck", ""},
	"swear":      {"swore", "sworn", ""},
	"sweep":      {"swept", "swept", ""},
	"swim":       {"swam", "swum", "swimming"},
	"swing":      {"swung", "swung", ""},
	"take":       {"took", "taken", ""},
	"teach":      {"taught", "taught", ""},
	"tear":       {"tore", "torn", ""},
	"tell":       {"told", "told", ""},
	"think":      {"thought", "thought", ""},
	"throw":      {"threw", "thrown", ""},
	"understand": {"understood", "understood", ""},
	"wake":       {"woke", "woken", ""},
	"wear":       {"wore", "worn", ""},
	"weep":       {"wept", "wept", ""},
	"win":        {"won", "won", "winning"},
	"wind":       {"wound", "wound", ""},
	"write":      {"wrote", "written", ""},

	// regular, but with a doubled final consonant
	"admit":   {"admitted", "admitted", "admitting"},
	"beg":     {"begged", "begged", "begging"},
	"chat":    {"chatted", "chatted", "chatting"},
	"clap":    {"clapped", "clapped", "clapping"},
	"drag":    {"dragged", "dragged", "dragging"},
	"drip":    {"dripped", "dripped", "dripping"},
	"drop":    {"dropped", "dropped", "dropping"},
	"flip":    {"flipped", "flipped", "flipping"},
	"grab":    {"grabbed", "grabbed", "grabbing"},
	"hop":     {"hopped", "hopped", "hopping"},
	"hug":     {"hugged", "hugged", "hugging"},
	"hum":     {"hummed", "hummed", "humming"},
	"jog":     {"jogged", "jogged", "jogging"},
	"nod":     {"nodded", "nodded", "nodding"},
	"occur":   {"occurred", "occurred", "occurring"},
	"pat":     {"patted", "patted", "patting"},
	"plan":    {"planned", "planned", "planning"},
	"plug":    {"plugged", "plugged", "plugging"},
	"prefer":  {"preferred", "preferred", "preferring"},
	"rob":     {"robbed", "robbed", "robbing"},
	"rub":     {"rubbed", "rubbed", "rubbing"},
	"shop":    {"shopped", "shopped", "shopping"},
	"skip":    {"skipped", "skipped", "skipping"},
	"slam":    {"slammed", "slammed", "slamming"},
	"slip":    {"slipped", "slipped", "slipping"},
	"snap":    {"snapped", "snapped", "snapping"},
	"stab":    {"stabbed", "stabbed", "stabbing"},
	"step":    {"stepped", "stepped", "stepping"},
	"stir":    {"stirred", "stirred", "stirring"},
	"stop":    {"stopped", "stopped", "stopping"},
	"tap":     {"tapped", "tapped", "tapping"},
	"trap":    {"trapped", "trapped", "trapping"},
	"trip":    {"tripped", "tripped", "tripping"},
	"unzip":   {"unzipped", "unzipped", "unzipping"},
	"wrap":    {"wrapped", "wrapped", "wrapping"},
	"zip":     {"zipped", "zipped", "zipping"},
	"control": {"controlled", "controlled", "controlling"},
	"equip":   {"equipped", "equipped", "equipping"},
	"patrol":  {"patrolled", "patrolled", "patrolling"},
	"permit":  {"permitted", "permitted", "permitting"},
	"regret":  {"regretted", "regretted", "regretting"},
}

// ============================================================================
// Regular rules
// ============================================================================

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

// consonantY reports a final y preceded by a consonant (carry, try)
func consonantY(v string) bool {
	n := len(v)
	return n >= 2 && v[n-1] == 'y' && !isVowel(v[n-2])
}

// ThirdSingular is the -s form: walks, carries, reaches, goes
func ThirdSingular(v string) string {
	switch v {
	case "be":
		return "is"
	case "have":
		return "has"
	}
	switch {
	case consonantY(v):
		return v[:len(v)-1] + "ies"
	case strings.HasSuffix(v, "ch"), strings.HasSuffix(v, "sh"),
		strings.HasSuffix(v, "s"), strings.HasSuffix(v, "z"),
		strings.HasSuffix(v, "x"), strings.HasSuffix(v, "o"):
		return v + "es"
	}
	return v + "s"
}

// regularPast is the -ed form: walked, carried, liked
func regularPast(v string) string {
	switch {
	case strings.HasSuffix(v, "e"):
		return v + "d"
	case consonantY(v):
		return v[:len(v)-1] + "ied"
	}
	return v + "ed"
}

// Preterite is the simple past form
func Preterite(v string) string {
	if irr, ok := irregularVerbs[v]; ok {
		return irr[0]
	}
	return regularPast(v)
}

// PastParticiple is the -en/-ed form
func PastParticiple(v string) string {
	if irr, ok := irregularVerbs[v]; ok {
		return irr[1]
	}
	return regularPast(v)
}

// PresentParticiple is the -ing form
func PresentParticiple(v string) string {
	if irr, ok := irregularVerbs[v]; ok && irr[2] != "" {
		return irr[2]
	}
	switch {
	case strings.HasSuffix(v, "ie"):
		return v[:len(v)-2] + "ying"
	case strings.HasSuffix(v, "ee"), strings.HasSuffix(v, "ye"), strings.HasSuffix(v, "oe"):
		return v + "ing"
	case len(v) > 2 && strings.HasSuffix(v, "e"):
		return v[:len(v)-1] + "ing"
	}
	return v + "ing"
}

// ============================================================================
// Agreement-sensitive forms
// ============================================================================

// presentForm is the finite present with agreement (am/is/are, has, walks)
func presentForm(v string, p Person, n world.Number) string {
	if v == "be" {
		switch {
		case n == world.Singular && p == First:
			return "am"
		case n == world.Singular && p == Third:
			return "is"
		}
		return "are"
	}
	if n == world.Singular && p == Third {
		return ThirdSingular(v)
	}
	return v
}

// pastForm is the finite past with agreement (was/were for be)
func pastForm(v string, p Person, n world.Number) string {
	if v == "be" {
		if n == world.Singular && p != Second {
			return "was"
		}
		return "were"
	}
	return Preterite(v)
}

// inflect puts the lemma into a slot
func inflect(v string, slot Slot, p Person, n world.Number) string {
	switch slot {
	case SlotPresent:
		return presentForm(v, p, n)
	case SlotPreterite:
		return pastForm(v, p, n)
	case SlotPastParticiple:
		return PastParticiple(v)
	case SlotPresentParticiple:
		return PresentParticiple(v)
	}
	return v
}
