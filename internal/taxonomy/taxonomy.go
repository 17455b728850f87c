// Package taxonomy 将原始案件描述映射到固定的犯罪类别。
package taxonomy

// Group 一个类别及其包含的原始描述（精确匹配）
type Group struct {
	Category     string
	Descriptions []string
}

// groups 声明顺序即匹配顺序：同一描述出现在多个类别时，先声明者生效
var groups = []Group{
	{Category: "theft", Descriptions: []string{
		"VEHICLE - STOLEN",
		"VEHICLE - ATTEMPT STOLEN",
		"VEHICLE, STOLEN - OTHER (MOTORIZED SCOOTERS, BIKES, ETC)",
		"THEFT PLAIN - PETTY ($950 & UNDER)",
		"THEFT PLAIN - ATTEMPT",
		"THEFT-GRAND ($950.01 & OVER)EXCPT,GUNS,FOWL,LIVESTK,PROD",
		"THEFT FROM MOTOR VEHICLE - PETTY ($950 & UNDER)",
		"THEFT FROM MOTOR VEHICLE - GRAND ($950.01 AND OVER)",
		"THEFT FROM MOTOR VEHICLE - ATTEMPT",
		"THEFT FROM PERSON - ATTEMPT",
		"THEFT OF IDENTITY",
		"SHOPLIFTING - PETTY THEFT ($950 & UNDER)",
		"SHOPLIFTING-GRAND THEFT ($950.01 & OVER)",
		"SHOPLIFTING - ATTEMPT",
		"BIKE - STOLEN",
		"BIKE - ATTEMPTED STOLEN",
		"BOAT - STOLEN",
		"PICKPOCKET",
		"PURSE SNATCHING",
		"TILL TAP - PETTY ($950 & UNDER)",
		"EMBEZZLEMENT, GRAND THEFT ($950.01 & OVER)",
		"EMBEZZLEMENT, PETTY THEFT ($950 & UNDER)",
		"DISHONEST EMPLOYEE - GRAND THEFT",
		"DISHONEST EMPLOYEE - PETTY THEFT",
	}},
	{Category: "burglary", Descriptions: []string{
		"BURGLARY",
		"BURGLARY, ATTEMPTED",
		"BURGLARY FROM VEHICLE",
		"BURGLARY FROM VEHICLE, ATTEMPTED",
	}},
	{Category: "robbery", Descriptions: []string{
		"ROBBERY",
		"ATTEMPTED ROBBERY",
	}},
	{Category: "assault", Descriptions: []string{
		"BATTERY - SIMPLE ASSAULT",
		"ASSAULT WITH DEADLY WEAPON, AGGRAVATED ASSAULT",
		"ASSAULT WITH DEADLY WEAPON ON POLICE OFFICER",
		"INTIMATE PARTNER - SIMPLE ASSAULT",
		"INTIMATE PARTNER - AGGRAVATED ASSAULT",
		"BATTERY POLICE (SIMPLE)",
		"BATTERY ON A FIREFIGHTER",
		"BATTERY WITH SEXUAL CONTACT",
		"OTHER ASSAULT",
		"CHILD ABUSE (PHYSICAL) - SIMPLE ASSAULT",
		"CHILD ABUSE (PHYSICAL) - AGGRAVATED ASSAULT",
		"SHOTS FIRED AT INHABITED DWELLING",
		"SHOTS FIRED AT MOVING VEHICLE, TRAIN OR AIRCRAFT",
	}},
	{Category: "sexual offense", Descriptions: []string{
		"RAPE, FORCIBLE",
		"RAPE, ATTEMPTED",
		"SODOMY/SEXUAL CONTACT B/W PENIS OF ONE PERS TO ANUS OTH",
		"ORAL COPULATION",
		"SEXUAL PENETRATION W/FOREIGN OBJECT",
		"LEWD CONDUCT",
		"LEWD/LASCIVIOUS ACTS WITH CHILD",
		"INDECENT EXPOSURE",
		"PEEPING TOM",
		"CHILD PORNOGRAPHY",
		"HUMAN TRAFFICKING - COMMERCIAL SEX ACTS",
	}},
	{Category: "homicide", Descriptions: []string{
		"CRIMINAL HOMICIDE",
		"MANSLAUGHTER, NEGLIGENT",
	}},
	{Category: "kidnapping", Descriptions: []string{
		"KIDNAPPING",
		"KIDNAPPING - GRAND ATTEMPT",
		"CHILD STEALING",
		"FALSE IMPRISONMENT",
	}},
	{Category: "vandalism", Descriptions: []string{
		"VANDALISM - FELONY ($400 & OVER, ALL CHURCH VANDALISMS)",
		"VANDALISM - MISDEAMEANOR ($399 OR UNDER)",
		"ARSON",
		"TELEPHONE PROPERTY - DAMAGE",
	}},
	{Category: "fraud", Descriptions: []string{
		"DOCUMENT FORGERY / STOLEN FELONY",
		"CREDIT CARDS, FRAUD USE ($950.01 & OVER)",
		"CREDIT CARDS, FRAUD USE ($950 & UNDER",
		"BUNCO, GRAND THEFT",
		"BUNCO, PETTY THEFT",
		"DEFRAUDING INNKEEPER/THEFT OF SERVICES, $950 & UNDER",
		"COUNTERFEIT",
		"UNAUTHORIZED COMPUTER ACCESS",
		"EXTORTION",
	}},
	{Category: "weapons", Descriptions: []string{
		"BRANDISH WEAPON",
		"DISCHARGE FIREARMS/SHOTS FIRED",
		"WEAPONS POSSESSION/BOMBING",
		"FIREARMS RESTRAINING ORDER (FIREARMS RO)",
	}},
	{Category: "trespassing", Descriptions: []string{
		"TRESPASSING",
		"PROWLER",
	}},
	{Category: "threats", Descriptions: []string{
		"CRIMINAL THREATS - NO WEAPON DISPLAYED",
		"THREATENING PHONE CALLS/LETTERS",
		"STALKING",
		"LETTERS, LEWD  -  TELEPHONE CALLS, LEWD",
	}},
	{Category: "court order violation", Descriptions: []string{
		"VIOLATION OF RESTRAINING ORDER",
		"VIOLATION OF COURT ORDER",
		"VIOLATION OF TEMPORARY RESTRAINING ORDER",
		"CONTEMPT OF COURT",
	}},
}

// byDescription 由 groups 反转得到，初始化后只读
var byDescription = invert(groups)

func invert(gs []Group) map[string]string {
	m := make(map[string]string)
	for _, g := range gs {
		for _, d := range g.Descriptions {
			if _, ok := m[d]; ok {
				continue
			}
			m[d] = g.Category
		}
	}
	return m
}

// Classify 返回描述所属的类别；未收录的描述原样返回
func Classify(description string) string {
	if c, ok := byDescription[description]; ok {
		return c
	}
	return description
}

// Categories 按声明顺序返回全部类别名
func Categories() []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Category)
	}
	return out
}

// Groups 返回声明表的副本
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Category: g.Category, Descriptions: append([]string(nil), g.Descriptions...)}
	}
	return out
}
