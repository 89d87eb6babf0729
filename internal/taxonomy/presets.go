package taxonomy

// Preset names accepted by Resolve.
const (
	PresetMarketing  = "marketing"
	PresetCurriculum = "curriculum"
)

var marketingCategories = []Category{
	{Name: "technical_marketing", Phrases: []string{
		// English
		"digital marketing", "social media", "content marketing", "seo", "sea",
		"google analytics", "data analysis", "marketing automation", "crm",
		"email marketing", "growth hacking", "conversion optimization",
		// Dutch
		"digitale marketing", "sociale media", "contentmarketing", "zoekmachine optimalisatie",
		"e-mailmarketing", "marketing automatisering", "klantrelatiebeheer",
		"conversie optimalisatie", "online marketing", "digitale strategie",
		"webanalytics", "digitale advertising", "performance marketing",
		"marketing technologie", "datagedreven marketing",
	}},
	{Name: "data_analytics", Phrases: []string{
		"sql", "python", "tableau", "power bi", "data visualization",
		"predictive analytics", "statistical analysis", "segmentation",
		"dataanalyse", "data visualisatie", "voorspellende analyse",
		"statistische analyse", "klantensegmentatie", "rapportages",
		"dashboards", "data-analyse", "klantinzichten", "big data",
		"machine learning", "data science", "a/b testing", "google tag manager",
		"google data studio", "excel", "spss", "powerpoint",
	}},
	{Name: "strategic_skills", Phrases: []string{
		"strategische planning", "marktonderzoek", "concurrentieanalyse",
		"merkmanagement", "productmarketing", "go-to-market strategie",
		"customer journey", "klantreis", "waardepropositie",
		"positionering", "marketingstrategie", "businessontwikkeling",
		"strategisch inzicht", "commercieel inzicht", "marktinzicht",
		"stakeholder management", "budgetbeheer", "roi",
	}},
	{Name: "creative_skills", Phrases: []string{
		"content creatie", "copywriting", "storytelling", "visueel ontwerp",
		"videoproductie", "creative direction", "creatieve richting",
		"merkidentiteit", "gebruikerservaring", "grafisch ontwerp",
		"adobe creative suite", "photoshop", "indesign", "illustrator",
		"wordpress", "cms", "videobewerking", "fotografie",
	}},
	{Name: "ai_tools", Phrases: []string{
		"chatgpt", "midjourney", "dall-e", "kunstmatige intelligentie",
		"generatieve ai", "ai copywriting", "ai content", "ai marketing",
		"prompt engineering", "ai automatisering", "machine learning marketing",
		"predictive modeling", "ai strategie", "ai implementatie",
	}},
	{Name: "soft_skills", Phrases: []string{
		"leiderschap", "communicatie", "samenwerking", "projectmanagement",
		"agile", "scrum", "stakeholdermanagement", "presentatievaardigheden",
		"analytisch denken", "probleemoplossend vermogen", "innovatie",
		"teamwork", "timemanagement", "plannen en organiseren",
		"zelfstandig werken", "resultaatgericht", "klantgericht",
		"overtuigingskracht", "ondernemerschap", "flexibiliteit",
	}},
	{Name: "languages", Phrases: []string{
		"nederlands", "english", "duits", "frans",
		"dutch", "german", "french",
		"moedertaal", "vloeiend", "uitstekende beheersing",
	}},
}

var marketingTrends = []string{
	"first-party data strategie",
	"privacy-first marketing",
	"ai-gedreven marketing automatisering",
	"generatieve ai implementatie",
	"zero-party data verzameling",
	"contextuele advertenties",
	"social commerce",
	"marketing in het metaverse",
	"voice search optimalisatie",
	"verantwoord ai-gebruik",
	"duurzaamheidsmarketing",
	"influencer marketing automatisering",
	"realtime personalisatie",
	"crossplatform attributie",
	"klantgegevensplatform beheer",
	"marketing automation platform",
	"customer data platform",
	"privacywetgeving",
	"gdpr compliance",
	"cookieless tracking",
}

var curriculumCategories = []Category{
	{Name: "soft_skill", Phrases: []string{
		"communicatie", "schriftelijke communicatie", "mondelinge communicatie",
		"presentatievaardigheden", "onderhandelen", "netwerken", "actief luisteren",
		"klantgerichtheid", "verhalen vertellen", "storytelling", "interpersoonlijke vaardigheden",
		"relatiebeheer", "empathie", "publieke communicatie", "feedback geven", "feedback ontvangen",
		"creativiteit", "out-of-the-box denken", "innovatief denken",
		"visueel denken", "ideeën genereren", "conceptontwikkeling", "branding", "marketingstrategie",
		"copywriting", "contentcreatie", "storytellingvaardigheden", "campagneplanning",
		"analytisch denken", "data-analyse", "probleemoplossend vermogen",
		"datagedreven besluitvorming", "google analytics", "kpi-analyse", "strategisch inzicht",
		"marktanalyse", "onderzoekend vermogen", "meten en evalueren", "resultaatgerichtheid",
		"projectmanagement", "tijdmanagement", "organisatievermogen", "prioriteiten stellen",
		"plannen", "multitasking", "efficiënt werken", "doelgericht werken", "zelfdiscipline",
		"deadline management", "besluitvorming", "strategische planning",
		"samenwerken", "teamwork", "leiderschap", "coaching", "initiatief nemen",
		"betrokkenheid", "conflicthantering", "positieve houding", "zelfreflectie",
		"aanpassingsvermogen", "betrouwbaarheid", "verantwoordelijkheid", "zelfvertrouwen",
		"digitale geletterdheid", "online communicatie", "social media awareness",
		"digitale samenwerking", "digitale marketing", "influencer management",
		"contentstrategie", "data storytelling", "digitale empathie", "ai-vaardigheden",
		"marketingautomatisering", "crm-denken", "growth mindset",
		"ondernemend denken", "commercieel inzicht", "merkdenken",
		"positionering", "consumentenpsychologie", "stakeholdermanagement",
		"budgetbewustzijn", "lange termijn denken", "business development",
		"strategisch communiceren",
		"stressbestendigheid", "doorzettingsvermogen", "flexibiliteit",
		"kritisch denken", "leren leren", "ethisch bewustzijn", "professioneel gedrag",
		"zelfontwikkeling", "open mindedness", "empowerment", "mentale veerkracht",
		"ownership", "klantinzicht", "doelgroepdenken", "klantbeleving",
		"customer journey-denken", "storybranding", "marketingcommunicatie",
		"loyaliteitsdenken", "trendbewustzijn",
	}},
	{Name: "competency", Phrases: []string{
		"strategisch denken", "marktanalyse", "data-analyse", "concurrentieanalyse",
		"probleemanalyse", "onderzoeksvaardigheden", "doelgroepanalyse",
		"besluitvorming", "kritisch denken", "trendonderzoek", "evaluatievaardigheden",
		"kosten-batenanalyse", "risicomanagement", "forecasting", "planningsvaardigheden",
		"branding", "storytelling", "marketingcommunicatie", "public relations",
		"copywriting", "visuele communicatie", "presentatievaardigheden",
		"interne communicatie", "externe communicatie", "multimediale communicatie",
		"contentstrategie", "advertentieplanning", "promotieontwikkeling",
		"digitale marketing", "social media management", "emailmarketing",
		"seo", "sea", "campagnebeheer", "crm-beheer", "webanalyse", "growth hacking",
		"performance marketing", "online adverteren", "digitale strategie",
		"marketingautomatisering", "customer journey mapping", "conversieoptimalisatie",
		"klantgerichtheid", "klantinzicht", "klantrelatiebeheer", "klantbehoud",
		"loyaliteitsmanagement", "customer experience", "doelgroepsegmentatie",
		"service design", "waardepropositieontwikkeling", "marktonderzoek",
		"positionering", "behoefteanalyse", "koopgedraganalyse", "customer lifetime value-denken",
		"projectmanagement", "planning", "organisatievermogen", "tijdmanagement",
		"budgetbeheer", "resourceplanning", "multidisciplinair samenwerken",
		"stakeholdermanagement", "agile werken", "scrum-methodologie",
		"rapportage", "prioriteiten stellen", "kwaliteit bewaken", "operationeel management",
		"creativiteit", "conceptontwikkeling", "ideeëngeneratie", "innovatievermogen",
		"design thinking", "campagneontwikkeling", "probleemoplossend vermogen",
		"visueel denken", "merkstrategie", "prototyping", "trendbewustzijn",
		"empathisch ontwerpen", "user experience", "user interface denken",
		"leiderschap", "teamcoördinatie", "samenwerken", "coaching", "conflicthantering",
		"inspireren", "motiveren", "onderhandelen", "delegeren", "empowerment",
		"initiatief nemen", "zelfreflectie", "besluitvaardigheid", "persoonlijk leiderschap",
		"stressbestendigheid", "aanpassingsvermogen", "doorzettingsvermogen",
		"ethisch handelen", "zelforganisatie", "verantwoordelijkheid nemen",
		"zelfontwikkeling", "leerbereidheid", "resultaatgerichtheid",
		"professioneel gedrag", "integriteit", "ownership", "positieve houding",
		"ondernemerschap", "business development", "financieel inzicht",
		"commercieel inzicht", "ondernemend denken", "budgetbewustzijn",
		"marktgericht handelen", "verkoopvaardigheden", "netwerken",
		"strategisch ondernemerschap", "waardecreatie", "business model innovatie",
	}},
}

// Marketing is the seven-category marketing competency taxonomy with the
// marketing trend list.
func Marketing() *Taxonomy {
	return mustNew(marketingCategories, marketingTrends)
}

// Curriculum splits phrases into soft skills and competencies. Many phrases
// appear under both and are matched under both.
func Curriculum() *Taxonomy {
	return mustNew(curriculumCategories, nil)
}

func mustNew(categories []Category, trends []string) *Taxonomy {
	t, err := New(categories, trends)
	if err != nil {
		panic(err)
	}
	return t
}
