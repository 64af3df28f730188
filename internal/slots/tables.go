package slots

// DefaultTables covers English, romanized Hindi, romanized Telugu and Spanish.
func DefaultTables() Tables {
	return Tables{
		Open: []string{
			"open", "roll down", "lower", "down", "wind down",
			"kholo", "khol do", "neeche", "neeche karo",
			"teruvu", "terachu", "kindaki", "kindiki",
			"abre", "abrir", "baja", "bajar", "abajo",
		},
		Close: []string{
			"close", "roll up", "raise", "up", "shut", "wind up",
			"band karo", "band", "upar", "upar karo", "chadhao",
			"moosey", "muyyi", "paiki", "payiki",
			"cierra", "cerrar", "sube", "subir", "arriba",
		},
		LocationFillers: append([]string{
			"navigate to", "navigate", "start navigation to", "navigation to", "navigation",
			"take me to", "take me", "drive me to", "drive to", "go to", "head to", "get me to",
			"directions to", "directions", "route to", "show me the way to", "find",
			"le chalo", "le jao", "chalo", "jao", "ka rasta", "rasta", "dikhao", "mujhe", "ko", "tak",
			"ki vellu", "ku vellu", "vellu", "teesukellu", "daari", "chupinchu", "naaku", "ki", "ku",
			"llevame al", "llevame a", "llevame", "navega a", "navegar a", "ir al", "ir a",
			"ruta al", "ruta a", "al", "a",
		}, common...),
		ContactFillers: append([]string{
			"make a call to", "place a call to", "call", "dial", "phone", "ring",
			"call karo", "phone karo", "call lagao", "phone lagao", "karo", "lagao", "ko",
			"call cheyyi", "phone cheyyi", "cheyyi", "ki", "ku",
			"llama a", "llama al", "llama", "llamar a", "llamar", "marca a", "marca", "telefonea a", "a", "al", "mi",
		}, common...),
	}
}

// Words that never belong to a destination or a contact name.
var common = []string{
	"please", "now", "the", "to", "my", "me", "an",
	"please karo", "abhi", "zara",
	"ippudu", "dayachesi",
	"por favor", "ahora", "el", "la", "los", "las",
}
