package intent

// DefaultRules returns the built-in keyword table: English plus romanized
// Hindi, romanized Telugu and Spanish. Accented forms need not be listed;
// matching runs on folded text.
func DefaultRules() []Rule {
	return []Rule{
		{
			Intent: AC,
			Digits: true,
			Keywords: concat(
				words(Domain,
					"temperature", "temp", "ac", "a c", "air conditioning", "air conditioner",
					"aircon", "climate", "heater", "heating", "fan speed",
					"heat", "defrost", "degree", "degrees", "celsius", "fahrenheit", "thermostat",
					// hi
					"thanda", "thandak", "garmi",
					// te
					"challaga", "vedi", "ushnograta",
					// es
					"temperatura", "aire", "clima", "climatizador",
					"grados", "calefaccion",
				),
				words(Cue,
					"cool", "cooler", "cold", "colder", "warm", "warmer", "hot", "hotter",
					"badhao", "ghatao", "kam karo",
					"penchu", "tagginchu",
					"enfria", "calienta", "frio", "calor",
				),
			),
		},
		{
			Intent: Window,
			Keywords: concat(
				words(Domain,
					"window", "windows", "glass",
					"khidki", "sheesha",
					"kitiki", "kiteki", "addam",
					"ventana", "ventanas", "ventanilla", "ventanillas", "cristal", "vidrio",
				),
				words(Slot,
					"open", "lower", "down", "close", "raise", "up", "shut",
					"kholo", "neeche", "band karo", "upar", "chadhao",
					"teruvu", "terachu", "kindaki", "moosey", "muyyi", "paiki",
					"abre", "abrir", "baja", "bajar", "cierra", "cerrar", "sube", "subir",
				),
				words(Cue, "driver", "passenger", "left", "right"),
			),
		},
		{
			Intent: Media,
			Keywords: concat(
				words(Domain,
					"music", "song", "songs", "track", "radio", "audio", "playlist", "album",
					"volume", "podcast", "spotify", "media", "play",
					"gaana", "gaane", "gana", "sangeet", "bajao",
					"paata", "paatalu", "sangeetham",
					"musica", "cancion", "canciones", "volumen", "emisora", "reproduce", "reproducir",
				),
				words(Cue,
					"pause", "resume", "stop", "skip", "next", "previous", "louder", "quieter",
					"chalao", "rok do",
					"veyyi", "aapu",
					"pausa", "siguiente", "anterior", "detener", "pon",
				),
			),
		},
		{
			Intent: Navigation,
			Keywords: concat(
				words(Domain,
					"navigate", "navigation", "directions", "route", "take me", "drive to",
					"drive me", "go to", "head to", "get me to",
					"le jao", "chalo", "rasta", "raasta",
					"vellu", "teesukellu", "daari", "dari",
					"navega", "navegar", "llevame", "ir a", "ir al", "direcciones", "ruta",
				),
				words(Cue,
					"find", "home", "office", "work", "hospital", "school", "airport", "station",
					"mall", "restaurant", "hotel", "parking",
					"ghar", "daftar", "aspatal", "bazaar",
					"illu", "intiki",
					"casa", "oficina", "escuela", "aeropuerto", "estacion", "gasolinera",
				),
			),
		},
		{
			Intent: Call,
			Keywords: concat(
				words(Domain,
					"call", "dial", "phone", "ring",
					"llama", "llamar", "llamada", "marca", "marcar", "telefonea",
				),
				words(Cue,
					"mom", "mum", "mother", "dad", "father", "brother", "sister", "wife",
					"husband", "son", "daughter", "friend", "boss",
					"maa", "papa", "bhai", "behen", "didi", "dost",
					"amma", "nanna", "anna", "akka", "tammudu", "chelli",
					"mama", "hermano", "hermana", "amigo", "amiga", "esposa", "esposo",
				),
			),
		},
	}
}

func words(kind Kind, phrases ...string) []Keyword {
	out := make([]Keyword, len(phrases))
	for i, p := range phrases {
		out[i] = Keyword{Phrase: p, Kind: kind}
	}
	return out
}

func concat(groups ...[]Keyword) []Keyword {
	var out []Keyword
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
