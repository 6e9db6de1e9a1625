package domain

import "strings"

type MBTIGroup string

const (
	GroupAnalysts  MBTIGroup = "Analysts"  // NT
	GroupDiplomats MBTIGroup = "Diplomats" // NF
	GroupSentinels MBTIGroup = "Sentinels" // SJ
	GroupExplorers MBTIGroup = "Explorers" // SP
)

// MBTIType describe un tipo de personalidad y sus atributos de estilo para el badge.
type MBTIType struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Group       MBTIGroup `json:"group"`
	Color       string    `json:"color"`
	Bg          string    `json:"bg"`
	Text        string    `json:"text"`
	Description string    `json:"description"`
}

var (
	analystStyle  = MBTIType{Color: "border-purple-500", Bg: "bg-purple-100", Text: "text-purple-700"}
	diplomatStyle = MBTIType{Color: "border-green-500", Bg: "bg-green-100", Text: "text-green-700"}
	sentinelStyle = MBTIType{Color: "border-blue-500", Bg: "bg-blue-100", Text: "text-blue-700"}
	explorerStyle = MBTIType{Color: "border-yellow-500", Bg: "bg-yellow-100", Text: "text-yellow-700"}

	// Estilo neutro para códigos desconocidos.
	unknownStyle = MBTIType{Color: "border-gray-400", Bg: "bg-gray-100", Text: "text-gray-600"}
)

// mbtiTypes sigue el orden de presentación por grupo.
var mbtiTypes = []MBTIType{
	newType("INTJ", "전략가", GroupAnalysts, analystStyle, "용의주도한 전략가"),
	newType("INTP", "논리술사", GroupAnalysts, analystStyle, "논리적인 사색가"),
	newType("ENTJ", "통솔자", GroupAnalysts, analystStyle, "대담한 통솔자"),
	newType("ENTP", "변론가", GroupAnalysts, analystStyle, "뜨거운 논쟁을 즐기는 변론가"),

	newType("INFJ", "옹호자", GroupDiplomats, diplomatStyle, "선의의 옹호자"),
	newType("INFP", "중재자", GroupDiplomats, diplomatStyle, "열정적인 중재자"),
	newType("ENFJ", "선도자", GroupDiplomats, diplomatStyle, "정의로운 사회운동가"),
	newType("ENFP", "활동가", GroupDiplomats, diplomatStyle, "재기발랄한 활동가"),

	newType("ISTJ", "현실주의자", GroupSentinels, sentinelStyle, "청렴결백한 논리주의자"),
	newType("ISFJ", "수호자", GroupSentinels, sentinelStyle, "용감한 수호자"),
	newType("ESTJ", "경영자", GroupSentinels, sentinelStyle, "엄격한 관리자"),
	newType("ESFJ", "집정관", GroupSentinels, sentinelStyle, "사교적인 외교관"),

	newType("ISTP", "장인", GroupExplorers, explorerStyle, "만능 재주꾼"),
	newType("ISFP", "모험가", GroupExplorers, explorerStyle, "호기심 많은 예술가"),
	newType("ESTP", "사업가", GroupExplorers, explorerStyle, "모험을 즐기는 사업가"),
	newType("ESFP", "연예인", GroupExplorers, explorerStyle, "자유로운 영혼의 연예인"),
}

var mbtiByCode = func() map[string]MBTIType {
	out := make(map[string]MBTIType, len(mbtiTypes))
	for _, t := range mbtiTypes {
		out[t.Code] = t
	}
	return out
}()

func newType(code, name string, group MBTIGroup, style MBTIType, description string) MBTIType {
	return MBTIType{
		Code:        code,
		Name:        name,
		Group:       group,
		Color:       style.Color,
		Bg:          style.Bg,
		Text:        style.Text,
		Description: description,
	}
}

// NormalizeMBTICode pasa el código a mayúsculas sin espacios.
func NormalizeMBTICode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupMBTIType busca un tipo por su código de cuatro letras.
func LookupMBTIType(code string) (MBTIType, bool) {
	t, ok := mbtiByCode[NormalizeMBTICode(code)]
	return t, ok
}

func IsMBTICode(code string) bool {
	_, ok := LookupMBTIType(code)
	return ok
}

// MBTITypes devuelve una copia de la tabla completa en orden de presentación.
func MBTITypes() []MBTIType {
	out := make([]MBTIType, len(mbtiTypes))
	copy(out, mbtiTypes)
	return out
}

// BadgeStyle devuelve el estilo del tipo o el estilo gris cuando el código no existe.
func BadgeStyle(code string) MBTIType {
	if t, ok := LookupMBTIType(code); ok {
		return t
	}
	style := unknownStyle
	style.Code = NormalizeMBTICode(code)
	return style
}
