package importer

import "testing"

func testClassifier(t *testing.T) *Classifier {
	t.Helper()
	return &Classifier{Places: loadTestPlaces(t), Home: "state college"}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	clf := testClassifier(t)

	cases := []struct {
		name    string
		message string
		want    Route
	}{
		{
			"from-to pair",
			"Offering a ride from State College to NYC tomorrow, 2 seats",
			Route{Category: CategoryRide, From: "state college", To: "new york"},
		},
		{
			"x-to-y pair",
			"philly to pitt this friday, anyone?",
			Route{Category: CategoryRide, From: "philadelphia", To: "pittsburgh"},
		},
		{
			"bare destination implies home",
			"Anyone driving to philly on 15th june?",
			Route{Category: CategoryRide, From: "state college", To: "philadelphia"},
		},
		{
			"from-to keywords with two places",
			"need to get from the sc area over to new york city",
			Route{Category: CategoryRide, From: "state college", To: "new york"},
		},
		{
			"same place twice is not a route",
			"from nyc to nyc, lol",
			Route{Category: CategoryGeneral},
		},
		{
			"chatter",
			"lost my keys at the hub yesterday",
			Route{Category: CategoryGeneral},
		},
		{
			"place without travel keywords",
			"philly cheesesteaks are overrated",
			Route{Category: CategoryGeneral},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := clf.Classify(tc.message)
			if got != tc.want {
				t.Fatalf("Classify(%q) = %+v, want %+v", tc.message, got, tc.want)
			}
		})
	}
}

func TestRideType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		want    string
	}{
		{"Offering a ride to NYC", "offering"},
		{"2 seats available, leaving at 8", "offering"},
		{"I can give a ride on friday", "offering"},
		{"driving to philly tonight", "offering"},
		{"Anyone going to pitt this weekend?", "seeking"},
		{"looking for a ride to the airport", "seeking"},
		{"need a ride tomorrow morning", "seeking"},
		{"nyc this friday?", "seeking"},
	}
	for _, tc := range cases {
		if got := RideType(tc.message); got != tc.want {
			t.Errorf("RideType(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}
