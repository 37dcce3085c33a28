package signals

// Built-in lexicons. Weights are tunable heuristics; override them with a YAML file
// through LoadFile rather than editing these tables at runtime.
func defaultRaw() rawTables {
	return rawTables{
		Vague: rawVague{
			High: []rawPattern{
				{Pattern: `always looking for talented`, Weight: 0.5, Description: "Generic evergreen language"},
				{Pattern: `perfect candidate`, Weight: 0.45, Description: "Impossible standards"},
				{Pattern: `endless possibilities`, Weight: 0.4, Description: "Vague growth promises"},
				{Pattern: `unlimited earning potential`, Weight: 0.5, Description: "Often scam-adjacent"},
				{Pattern: `immediate need`, Weight: 0.35, Description: "Urgency without specifics"},
				{Pattern: `work hard[,\s]+play hard`, Weight: 0.4, Description: "Culture buzzword masking issues"},
			},
			Medium: []rawPattern{
				{Pattern: `rock\s?star|ninja|guru|wizard|unicorn`, Weight: 0.35, Description: "Tech buzzword title"},
				{Pattern: `growing team`, Weight: 0.25, Description: "Often masks turnover"},
				{Pattern: `wear many hats`, Weight: 0.3, Description: "Role not defined"},
				{Pattern: `other duties as assigned`, Weight: 0.25, Description: "Catch-all responsibilities"},
				{Pattern: `competitive (salary|compensation|pay)`, Weight: 0.3, Description: "Vague salary"},
				{Pattern: `salary (commensurate|depending|based|negotiable)`, Weight: 0.3, Description: "Undisclosed salary"},
				{Pattern: `various (responsibilities|duties|tasks)`, Weight: 0.3, Description: "Vague duties"},
				{Pattern: `make an impact`, Weight: 0.2, Description: "Vague contribution"},
				{Pattern: `hit the ground running`, Weight: 0.25, Description: "No training/support"},
			},
			Low: []rawPattern{
				{Pattern: `fast[- ]paced environment`, Weight: 0.1, Description: "Generic filler phrase"},
				{Pattern: `self[- ]starter`, Weight: 0.1, Description: "Standard HR language"},
				{Pattern: `team player`, Weight: 0.08, Description: "Very common"},
				{Pattern: `dynamic (environment|team|company)`, Weight: 0.1, Description: "Overused"},
				{Pattern: `motivated individual`, Weight: 0.1, Description: "Generic"},
				{Pattern: `passionate about`, Weight: 0.08, Description: "Overused"},
				{Pattern: `results[- ]driven`, Weight: 0.1, Description: "Business speak"},
			},
		},
		Repost: []rawPattern{
			{Pattern: `re-?post(ed|ing)?`, Weight: 0.7, Description: "Explicit repost"},
			{Pattern: `still (looking|searching|hiring)`, Weight: 0.5, Description: "Still searching"},
			{Pattern: `position (remains|still) open`, Weight: 0.6, Description: "Position remains open"},
		},
		ExcessiveRequirements: []rawPattern{
			{Pattern: `\b(15|20)\+?\s*years?\s*(of\s+)?experience`, Weight: 0.6, Description: "Excessive experience requirement"},
			{Pattern: `must\s+have\s+[a-z,\s]+and\s+[a-z,\s]+and\s+[a-z,\s]+and`, Weight: 0.4, Description: "Excessive requirements"},
			{Pattern: `entry[- ]level.{0,30}(5|6|7|8|9|10)\+?\s*years?`, Weight: 0.8, Description: "Entry-level with senior requirements"},
		},
		Staffing: rawStaffing{
			NamePatterns: []string{
				`staffing`, `recruiting`, `talent (solutions|group|partners)`, `solutions (group|inc)`,
				`consulting (group|partners)`, `workforce`, `personnel`, `technical (resources|services)`,
				`placement`, `contractors?$`, `recruiters?$`,
			},
			Language: []string{
				`\b(our|a) client (is )?(seeking|looking|hiring)`,
				`on behalf of (our|a) client`,
				`contract.to.(hire|perm)`,
				`w2 (contract|position)`,
				`c2c (available|accepted)`,
				`client (company|name|identity) (is )?(confidential|disclosed)`,
				`confidential client`,
				`submit(ted)? (your )?(resume|profile)`,
				`right to represent`,
				`bill rate`,
			},
			Phrases: []rawPhrase{
				{Text: "our client", Weight: 0.9},
				{Text: "contract to hire", Weight: 0.9},
				{Text: "c2c", Weight: 0.9},
				{Text: "corp to corp", Weight: 0.9},
				{Text: "w2 contract", Weight: 0.9},
				{Text: "bill rate", Weight: 0.9},
				{Text: "right to represent", Weight: 0.9},
			},
			KnownAgencies: []string{
				"robert half", "randstad", "kelly services", "manpower", "adecco", "aerotek",
				"insight global", "teksystems", "apex systems", "kforce", "hays", "allegis group",
				"express employment", "spherion", "volt", "beacon hill", "modis", "aquent",
				"creative circle", "mastech", "cybercoders", "jobot", "motion recruitment", "vaco",
				"addison group",
			},
		},
		Remote: rawRemote{
			Positive: []rawPattern{
				{Pattern: `100%\s*remote`, Weight: 1.0, Description: "100% remote confirmed"},
				{Pattern: `fully\s*remote`, Weight: 0.95, Description: "Fully remote"},
				{Pattern: `work\s*from\s*anywhere`, Weight: 0.95, Description: "Work from anywhere"},
				{Pattern: `remote.?first`, Weight: 0.9, Description: "Remote-first company"},
				{Pattern: `no\s*(office|commute)\s*required`, Weight: 0.9, Description: "No office required"},
			},
			Hybrid: []rawPattern{
				{Pattern: `hybrid`, Weight: 1.0, Description: "Mentions hybrid", Kind: "hybrid"},
				{Pattern: `\d+\s*days?\s*(in|at)\s*(the\s+)?office`, Weight: 0.95, Description: "Office days required", Kind: "hybrid"},
				{Pattern: `office\s*(attendance|presence)\s*required`, Weight: 0.9, Description: "Office attendance required", Kind: "hybrid"},
				{Pattern: `occasional(ly)?\s*(office|on.?site)`, Weight: 0.8, Description: "Occasional office", Kind: "hybrid"},
				{Pattern: `primarily\s*remote`, Weight: 0.5, Description: "Primarily remote (not fully)", Kind: "hybrid"},
			},
			Onsite: []rawPattern{
				{Pattern: `on.?site\s*(only|required)`, Weight: 1.0, Description: "Onsite required", Kind: "onsite"},
				{Pattern: `in.?office\s*(only|required)`, Weight: 1.0, Description: "In-office required", Kind: "onsite"},
				{Pattern: `must\s+(be\s+)?located\s+(in|near)`, Weight: 0.9, Description: "Location requirement", Kind: "location"},
				{Pattern: `relocation\s+(required|expected)`, Weight: 0.85, Description: "Relocation mentioned", Kind: "location"},
			},
			LocationContradictions: []rawPattern{
				{Pattern: `remote.*but.*(?:must|need|required).*(?:located|live)`, Weight: 0.9, Description: "Location contradiction", Kind: "location"},
				{Pattern: `within\s*\d+\s*(miles?|km)`, Weight: 0.85, Description: "Location contradiction", Kind: "location"},
				{Pattern: `local\s*candidates?\s*(only|preferred)`, Weight: 0.8, Description: "Location contradiction", Kind: "location"},
			},
		},
		Content: rawContent{
			Buzzwords: []string{
				"synergy", "leverage", "paradigm", "disrupt", "innovative", "cutting-edge",
				"best-in-class", "world-class", "game-changing", "revolutionary", "scalable",
				"holistic", "ecosystem", "bandwidth", "pivot", "ideate", "optimize", "streamline",
			},
			VaguenessIndicators: []string{
				"fast-paced environment", "self-starter", "team player", "dynamic",
				"exciting opportunity", "competitive salary", "commensurate with experience",
				"doe", "negotiable", "rock star", "ninja", "guru", "wear many hats",
				"other duties as assigned", "up to",
			},
			LegitimacyIndicators: []string{
				"reports to", "team of", "specific project", "start date", "interview process",
				"benefits include", "pto", "401k", "health insurance",
			},
			HighRiskIndustries: []string{
				"staffing", "recruiting", "talent acquisition", "consulting", "marketing agency",
				"call center", "insurance sales", "financial services",
			},
			ContactRedFlags: []rawPattern{
				{Pattern: `@(gmail|yahoo|hotmail|outlook)\.com`, Weight: 0.8, Description: "Personal email contact"},
				{Pattern: `(whatsapp|telegram|signal app)`, Weight: 0.8, Description: "Messaging app contact"},
				{Pattern: `(text|message) (me|us) (at|on)`, Weight: 0.6, Description: "Off-platform contact request"},
			},
		},
		CategoryWeights: map[string]float64{
			"temporal":   40,
			"content":    20,
			"company":    15,
			"behavioral": 12,
			"community":  8,
			"structural": 5,
		},
		SignalWeights: map[string]float64{
			"posting_age":         35,
			"repost_language":     30,
			"seasonal":            15,
			"vagueness":           25,
			"salary":              20,
			"requirement_realism": 20,
			"buzzwords":           15,
			"description_length":  10,
			"blacklist":           40,
			"staffing":            20,
			"industry":            20,
			"apply_method":        35,
			"sponsored":           25,
			"applicants":          25,
			"reported_company":    50,
			"formatting":          30,
			"contact_info":        20,
		},
	}
}

var defaultTables = mustCompile(defaultRaw())

func mustCompile(raw rawTables) *Tables {
	t, err := compile(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the built-in tables. The result is shared and must not be modified.
func Default() *Tables {
	return defaultTables
}
