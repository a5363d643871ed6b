package league

import "github.com/yourusername/playoff-odds/internal/models"

// SeasonLength is the number of regular-season games each club plays.
const SeasonLength = 162

// mlbTeams lists the thirty clubs grouped by division.
var mlbTeams = []models.Team{
	{ID: "BAL", Name: "Orioles", FullName: "Baltimore Orioles", Division: models.DivisionALEast, League: models.LeagueAL},
	{ID: "BOS", Name: "Red Sox", FullName: "Boston Red Sox", Division: models.DivisionALEast, League: models.LeagueAL},
	{ID: "NYY", Name: "Yankees", FullName: "New York Yankees", Division: models.DivisionALEast, League: models.LeagueAL},
	{ID: "TB", Name: "Rays", FullName: "Tampa Bay Rays", Division: models.DivisionALEast, League: models.LeagueAL},
	{ID: "TOR", Name: "Blue Jays", FullName: "Toronto Blue Jays", Division: models.DivisionALEast, League: models.LeagueAL},

	{ID: "CLE", Name: "Guardians", FullName: "Cleveland Guardians", Division: models.DivisionALCentral, League: models.LeagueAL},
	{ID: "CWS", Name: "White Sox", FullName: "Chicago White Sox", Division: models.DivisionALCentral, League: models.LeagueAL},
	{ID: "DET", Name: "Tigers", FullName: "Detroit Tigers", Division: models.DivisionALCentral, League: models.LeagueAL},
	{ID: "KC", Name: "Royals", FullName: "Kansas City Royals", Division: models.DivisionALCentral, League: models.LeagueAL},
	{ID: "MIN", Name: "Twins", FullName: "Minnesota Twins", Division: models.DivisionALCentral, League: models.LeagueAL},

	{ID: "HOU", Name: "Astros", FullName: "Houston Astros", Division: models.DivisionALWest, League: models.LeagueAL},
	{ID: "LAA", Name: "Angels", FullName: "Los Angeles Angels", Division: models.DivisionALWest, League: models.LeagueAL},
	{ID: "OAK", Name: "Athletics", FullName: "Oakland Athletics", Division: models.DivisionALWest, League: models.LeagueAL},
	{ID: "SEA", Name: "Mariners", FullName: "Seattle Mariners", Division: models.DivisionALWest, League: models.LeagueAL},
	{ID: "TEX", Name: "Rangers", FullName: "Texas Rangers", Division: models.DivisionALWest, League: models.LeagueAL},

	{ID: "ATL", Name: "Braves", FullName: "Atlanta Braves", Division: models.DivisionNLEast, League: models.LeagueNL},
	{ID: "MIA", Name: "Marlins", FullName: "Miami Marlins", Division: models.DivisionNLEast, League: models.LeagueNL},
	{ID: "NYM", Name: "Mets", FullName: "New York Mets", Division: models.DivisionNLEast, League: models.LeagueNL},
	{ID: "PHI", Name: "Phillies", FullName: "Philadelphia Phillies", Division: models.DivisionNLEast, League: models.LeagueNL},
	{ID: "WSH", Name: "Nationals", FullName: "Washington Nationals", Division: models.DivisionNLEast, League: models.LeagueNL},

	{ID: "CHC", Name: "Cubs", FullName: "Chicago Cubs", Division: models.DivisionNLCentral, League: models.LeagueNL},
	{ID: "CIN", Name: "Reds", FullName: "Cincinnati Reds", Division: models.DivisionNLCentral, League: models.LeagueNL},
	{ID: "MIL", Name: "Brewers", FullName: "Milwaukee Brewers", Division: models.DivisionNLCentral, League: models.LeagueNL},
	{ID: "PIT", Name: "Pirates", FullName: "Pittsburgh Pirates", Division: models.DivisionNLCentral, League: models.LeagueNL},
	{ID: "STL", Name: "Cardinals", FullName: "St. Louis Cardinals", Division: models.DivisionNLCentral, League: models.LeagueNL},

	{ID: "ARI", Name: "Diamondbacks", FullName: "Arizona Diamondbacks", Division: models.DivisionNLWest, League: models.LeagueNL},
	{ID: "COL", Name: "Rockies", FullName: "Colorado Rockies", Division: models.DivisionNLWest, League: models.LeagueNL},
	{ID: "LAD", Name: "Dodgers", FullName: "Los Angeles Dodgers", Division: models.DivisionNLWest, League: models.LeagueNL},
	{ID: "SD", Name: "Padres", FullName: "San Diego Padres", Division: models.DivisionNLWest, League: models.LeagueNL},
	{ID: "SF", Name: "Giants", FullName: "San Francisco Giants", Division: models.DivisionNLWest, League: models.LeagueNL},
}
