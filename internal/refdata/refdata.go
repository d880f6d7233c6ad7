// Package refdata holds static lookup tables for carrier and location codes.
package refdata

// airlineNames maps IATA carrier codes to display names.
var airlineNames = map[string]string{
	"UT": "Utair",
	"SU": "Аэрофлот",
	"S7": "S7 Airlines",
	"U6": "Уральские Авиалинии",
	"WZ": "Red Wings",
	"N4": "Nordwind",
	"DP": "Победа",
	"R3": "Якутия",
	"5N": "СМАРТАВИА",
	"EO": "Pegas Fly",
	"RT": "ЮВТ АЭРО",
	"A4": "Азимут",
	"IO": "IrAero",
	"YC": "ЯМАЛ",
	"7R": "Руслайн",
	"KV": "КрасАвиа",
}

// cityNames maps IATA city codes to Russian display names.
var cityNames = map[string]string{
	"MOW": "Москва",
	"LED": "Санкт-Петербург",
	"UFA": "Уфа",
	"USK": "Усинск",
	"KZN": "Казань",
	"AER": "Сочи",
	"SVX": "Екатеринбург",
	"OVB": "Новосибирск",
	"VVO": "Владивосток",
	"KGD": "Калининград",
	"ROV": "Ростов-на-Дону",
	"KRR": "Краснодар",
	"SIP": "Симферополь",
	"GOJ": "Нижний Новгород",
	"SGC": "Сургут",
	"MRV": "Минеральные Воды",
	"CEK": "Челябинск",
	"KUF": "Самара",
	"BAX": "Барнаул",
	"OMS": "Омск",
	"TJM": "Тюмень",
	"IKT": "Иркутск",
	"MMK": "Мурманск",
	"KJA": "Красноярск",
	"VOG": "Волгоград",
}

// AirlineName returns the display name for an IATA carrier code, or the code
// itself when unknown.
func AirlineName(code string) string {
	if name, ok := airlineNames[code]; ok {
		return name
	}
	return code
}

// CityName returns the Russian display name for an IATA city code, or the
// code itself when unknown.
func CityName(code string) string {
	if name, ok := cityNames[code]; ok {
		return name
	}
	return code
}
