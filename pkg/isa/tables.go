package isa

// FirstLetters maps ISA-5.1 first letters (measured variable) to their
// standard meaning.
var FirstLetters = map[string]string{
	"A": "Analysis",
	"B": "Burner/Combustion",
	"C": "Conductivity",
	"D": "Density",
	"E": "Voltage",
	"F": "Flow Rate",
	"G": "Gaging/Position",
	"H": "Hand/Manual",
	"I": "Current",
	"J": "Power",
	"K": "Time",
	"L": "Level",
	"M": "Moisture",
	"N": "User Choice",
	"O": "User Choice",
	"P": "Pressure",
	"Q": "Quantity",
	"R": "Radiation",
	"S": "Speed",
	"T": "Temperature",
	"U": "Multivariable",
	"V": "Vibration",
	"W": "Weight",
	"X": "Unclassified",
	"Y": "Event/State",
	"Z": "Position",
}

// SucceedingLetters maps ISA-5.1 succeeding letters (function) to their
// standard meaning.
var SucceedingLetters = map[string]string{
	"A": "Alarm",
	"B": "User Choice",
	"C": "Control",
	"D": "Differential",
	"E": "Sensing Element",
	"G": "Glass/Viewing",
	"H": "High",
	"I": "Indicate",
	"K": "Control Station",
	"L": "Low/Light",
	"M": "Middle",
	"N": "User Choice",
	"O": "Orifice",
	"P": "Point/Test",
	"Q": "Integrate/Totalize",
	"R": "Record",
	"S": "Switch/Safety",
	"T": "Transmit",
	"U": "Multifunction",
	"V": "Valve",
	"W": "Well",
	"X": "Unclassified",
	"Y": "Relay/Compute",
	"Z": "Driver/Actuator",
}
