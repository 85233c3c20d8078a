package identity

import "github.com/Zilecito18/impostor-game/internal/domain"

// fallbackPool is a static list of famous footballers used whenever the
// upstream source is unavailable or returns too few usable players.
var fallbackPool = []domain.Identity{
	{ID: "fb-messi", Name: "Lionel Messi", Team: "Inter Miami", Position: "Forward", Nationality: "Argentina"},
	{ID: "fb-ronaldo", Name: "Cristiano Ronaldo", Team: "Al-Nassr", Position: "Forward", Nationality: "Portugal"},
	{ID: "fb-mbappe", Name: "Kylian Mbappé", Team: "Real Madrid", Position: "Forward", Nationality: "France"},
	{ID: "fb-haaland", Name: "Erling Haaland", Team: "Manchester City", Position: "Forward", Nationality: "Norway"},
	{ID: "fb-neymar", Name: "Neymar Jr", Team: "Santos", Position: "Forward", Nationality: "Brazil"},
	{ID: "fb-debruyne", Name: "Kevin De Bruyne", Team: "Napoli", Position: "Midfielder", Nationality: "Belgium"},
	{ID: "fb-modric", Name: "Luka Modrić", Team: "AC Milan", Position: "Midfielder", Nationality: "Croatia"},
	{ID: "fb-salah", Name: "Mohamed Salah", Team: "Liverpool", Position: "Forward", Nationality: "Egypt"},
	{ID: "fb-lewandowski", Name: "Robert Lewandowski", Team: "Barcelona", Position: "Forward", Nationality: "Poland"},
	{ID: "fb-kane", Name: "Harry Kane", Team: "Bayern Munich", Position: "Forward", Nationality: "England"},
	{ID: "fb-vinicius", Name: "Vinícius Júnior", Team: "Real Madrid", Position: "Forward", Nationality: "Brazil"},
	{ID: "fb-bellingham", Name: "Jude Bellingham", Team: "Real Madrid", Position: "Midfielder", Nationality: "England"},
	{ID: "fb-vandijk", Name: "Virgil van Dijk", Team: "Liverpool", Position: "Defender", Nationality: "Netherlands"},
	{ID: "fb-courtois", Name: "Thibaut Courtois", Team: "Real Madrid", Position: "Goalkeeper", Nationality: "Belgium"},
	{ID: "fb-griezmann", Name: "Antoine Griezmann", Team: "Atlético Madrid", Position: "Forward", Nationality: "France"},
	{ID: "fb-sonny", Name: "Son Heung-min", Team: "LAFC", Position: "Forward", Nationality: "South Korea"},
	{ID: "fb-yamal", Name: "Lamine Yamal", Team: "Barcelona", Position: "Forward", Nationality: "Spain"},
	{ID: "fb-pedri", Name: "Pedri", Team: "Barcelona", Position: "Midfielder", Nationality: "Spain"},
	{ID: "fb-rodri", Name: "Rodri", Team: "Manchester City", Position: "Midfielder", Nationality: "Spain"},
	{ID: "fb-musiala", Name: "Jamal Musiala", Team: "Bayern Munich", Position: "Midfielder", Nationality: "Germany"},
	{ID: "fb-odegaard", Name: "Martin Ødegaard", Team: "Arsenal", Position: "Midfielder", Nationality: "Norway"},
	{ID: "fb-saka", Name: "Bukayo Saka", Team: "Arsenal", Position: "Forward", Nationality: "England"},
	{ID: "fb-foden", Name: "Phil Foden", Team: "Manchester City", Position: "Midfielder", Nationality: "England"},
	{ID: "fb-osimhen", Name: "Victor Osimhen", Team: "Galatasaray", Position: "Forward", Nationality: "Nigeria"},
	{ID: "fb-kvara", Name: "Khvicha Kvaratskhelia", Team: "Paris Saint-Germain", Position: "Forward", Nationality: "Georgia"},
	{ID: "fb-valverde", Name: "Federico Valverde", Team: "Real Madrid", Position: "Midfielder", Nationality: "Uruguay"},
	{ID: "fb-martinez", Name: "Lautaro Martínez", Team: "Inter Milan", Position: "Forward", Nationality: "Argentina"},
	{ID: "fb-dibu", Name: "Emiliano Martínez", Team: "Aston Villa", Position: "Goalkeeper", Nationality: "Argentina"},
	{ID: "fb-ruben", Name: "Rúben Dias", Team: "Manchester City", Position: "Defender", Nationality: "Portugal"},
	{ID: "fb-hakimi", Name: "Achraf Hakimi", Team: "Paris Saint-Germain", Position: "Defender", Nationality: "Morocco"},
	{ID: "fb-wirtz", Name: "Florian Wirtz", Team: "Liverpool", Position: "Midfielder", Nationality: "Germany"},
	{ID: "fb-palmer", Name: "Cole Palmer", Team: "Chelsea", Position: "Midfielder", Nationality: "England"},
	{ID: "fb-alisson", Name: "Alisson Becker", Team: "Liverpool", Position: "Goalkeeper", Nationality: "Brazil"},
	{ID: "fb-kimmich", Name: "Joshua Kimmich", Team: "Bayern Munich", Position: "Midfielder", Nationality: "Germany"},
	{ID: "fb-araujo", Name: "Ronald Araújo", Team: "Barcelona", Position: "Defender", Nationality: "Uruguay"},
	{ID: "fb-theo", Name: "Theo Hernández", Team: "Al-Hilal", Position: "Defender", Nationality: "France"},
}

// FallbackIdentities returns a copy of the static pool. The result is
// guaranteed non-empty.
func FallbackIdentities() []domain.Identity {
	return copyIdentities(fallbackPool)
}
