package companies

import "github.com/jonathan/jobfiltr/internal/types"

// registryUpdated is the date the built-in registry was last curated.
const registryUpdated = "2026-01-13"

type registryEntry struct {
	name     string
	category types.ReportCategory
	aliases  []string
}

func ghost(name string, aliases ...string) registryEntry {
	return registryEntry{name: name, category: types.ReportGhost, aliases: aliases}
}

func spam(name string, aliases ...string) registryEntry {
	return registryEntry{name: name, category: types.ReportSpam, aliases: aliases}
}

func scam(name string, aliases ...string) registryEntry {
	return registryEntry{name: name, category: types.ReportScam, aliases: aliases}
}

// reportedRegistry is the curated list of community-reported companies, in registration order.
var reportedRegistry = []registryEntry{
	ghost("AbbVie"),
	ghost("Accenture"),
	ghost("Accruent"),
	ghost("AECOM"),
	ghost("Affinipay"),
	ghost("Age of Learning"),
	ghost("Aha!", "aha"),
	ghost("Apotex"),
	ghost("Arrowstreet Capital"),
	ghost("Ascendion"),
	ghost("Assigncorp"),
	ghost("Atlas Health"),
	ghost("Atlassian"),
	ghost("Aya Healthcare"),

	ghost("Balfour Beatty", "balfour beaty"),
	ghost("Bank of America", "bofa", "bankofamerica"),
	ghost("Beyond Trust", "beyondtrust"),
	ghost("Biorender"),
	ghost("Bobsled"),
	ghost("Booksource"),
	ghost("Boston Scientific"),
	ghost("Burt Intelligence"),
	ghost("Business Wire"),

	ghost("CACI"),
	ghost("Caesar's", "caesars", "caesars entertainment"),
	ghost("Cardinal Health"),
	ghost("Cedars Sinai", "cedars-sinai", "cedarssinai"),
	ghost("ChenMed"),
	ghost("Clari"),
	ghost("ClearWater", "clearwater analytics"),
	ghost("Clover"),
	ghost("Code and Theory"),
	ghost("Comcast"),
	ghost("Contra"),
	ghost("Cotiviti"),
	ghost("Credit Acceptance"),
	ghost("Crocs"),
	ghost("Crossover"),
	ghost("CVS", "cvs health", "cvs pharmacy"),

	ghost("DCBL"),
	spam("Dice", "dice.com"),
	ghost("DoorDash"),

	ghost("Earnin"),
	ghost("Embraer"),
	ghost("Evidation"),
	ghost("Excellence Services LLC"),
	ghost("EY", "ernst young", "ernst & young"),

	ghost("Fanatics"),
	ghost("Files.com", "filescom"),
	ghost("FiServe", "fiserv"),
	ghost("FloQast"),
	ghost("Fluency"),
	ghost("FluentStream"),

	ghost("GE Healthcare", "ge health", "general electric healthcare"),
	ghost("Genworth"),
	ghost("Golden Hippo"),
	ghost("GoodRX", "goodrx"),
	ghost("Greendot", "green dot"),

	ghost("Harbor Freight Tools", "harbor freight"),
	ghost("Health Edge", "healthedge"),
	scam("HireMeFast LLC"),
	ghost("HubSpot"),

	ghost("JP Morgan Chase", "jpmorgan", "jp morgan", "chase", "jpmorganchase"),
	ghost("Kforce"),
	ghost("King's Hawaiian", "kings hawaiian"),
	ghost("Klaviyo"),
	ghost("Kraft & Kennedy", "kraft kennedy"),

	ghost("Leidos"),
	ghost("Lumenalta"),

	ghost("Magistrate"),
	ghost("Mandai"),
	ghost("Matterport"),
	ghost("Medix"),
	ghost("Molina Health", "molina healthcare"),
	ghost("Motion Recruitment"),
	ghost("Mozilla"),

	ghost("NBC News"),
	ghost("NBC Universal", "nbcuniversal"),
	ghost("NV5"),

	ghost("Oneforma"),
	ghost("OneTrust"),
	ghost("Origin"),
	ghost("Oscar Health"),

	ghost("Paradox.ai", "paradox ai", "paradoxai"),
	ghost("Polly"),
	ghost("Posit"),
	ghost("Prize Picks", "prizepicks"),
	ghost("Publicis Health"),

	ghost("Raptive"),
	ghost("Resmed", "res med"),
	ghost("Robert Half"),

	ghost("Seetec"),
	ghost("Signify Health"),
	ghost("SmithRX"),
	ghost("SoCal Edison", "southern california edison", "sce"),
	ghost("SoCal Gas", "southern california gas", "socalgas"),
	ghost("Softrams"),
	ghost("Sonder"),
	ghost("Stickermule", "sticker mule"),
	ghost("Sundays for Dogs"),
	ghost("Sunnova"),
	scam("Swooped"),

	ghost("Tabby"),
	spam("Talentify.io", "talentify"),
	scam("Techie Talent"),
	ghost("TekSystems", "tek systems"),
	ghost("Terrabis"),
	ghost("Thermo Fisher", "thermo fisher scientific", "thermofisher"),
	ghost("Tickets.Com", "ticketscom", "tickets com"),
	ghost("Tixr"),
	ghost("Toast"),

	ghost("UCLA Health"),
	ghost("ULine", "u-line"),
	ghost("Underdog"),
	ghost("Underdog Sports"),
	ghost("Unisys"),

	ghost("Vertafore"),
	ghost("VXI"),

	ghost("Webstaurant", "webstaurant store", "webstaruant"),
	ghost("Wrike"),
	ghost("Yahoo News", "yahoo"),

	ghost("1-800-Pack-Rat", "1 800 pack rat", "1800packrat", "1 800 pack a rat", "1800 pack rat"),
}

// DefaultReported returns the built-in registry with names and aliases normalized.
func DefaultReported() []types.ReportedCompany {
	out := make([]types.ReportedCompany, 0, len(reportedRegistry))
	for _, e := range reportedRegistry {
		out = append(out, newReported(e.name, e.category, e.aliases...))
	}
	return out
}

func newReported(name string, category types.ReportCategory, aliases ...string) types.ReportedCompany {
	rc := types.ReportedCompany{
		Name:        name,
		Normalized:  NormalizeName(name),
		Category:    category,
		LastUpdated: registryUpdated,
	}
	for _, a := range aliases {
		if n := NormalizeName(a); n != "" {
			rc.Aliases = append(rc.Aliases, n)
		}
	}
	return rc
}
