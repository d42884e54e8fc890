package goobd

// Well known commands. Any catalogue entry can also be addressed by its
// wire string directly.
const (
	CmdPIDSupport1 Command = "0100"
	CmdStatus      Command = "0101"
	CmdFreezeDTC   Command = "0102"
	CmdFuelStatus  Command = "0103"
	CmdEngineLoad  Command = "0104"
	CmdCoolantTemp Command = "0105"
	CmdRPM         Command = "010C"
	CmdSpeed       Command = "010D"
	CmdIntakeTemp  Command = "010F"
	CmdMAF         Command = "0110"
	CmdThrottle    Command = "0111"

	CmdDTCs        Command = "03"
	CmdClearDTCs   Command = "04"
	CmdPendingDTCs Command = "07"

	CmdVIN           Command = "0902"
	CmdCalibrationID Command = "0904"
	CmdCVN           Command = "0906"
	CmdECUName       Command = "090A"

	CmdVoltage  Command = "ATRV"
	CmdVersion  Command = "ATI"
	CmdProtocol Command = "ATDPN"
)

// supportGetterOrder lists the chained supported-PID bitmap requests in
// discovery order.
var supportGetterOrder = []Command{
	"0100", "0120", "0140", "0160",
	"0600", "0620", "0640", "0660", "0680", "06A0", "06C0", "06E0",
	"0900",
}

var catalogue = map[Command]Spec{
	// Mode 01 — live data
	"0100": {Command: "0100", Desc: "Supported PIDs 01-20", ShortDesc: "PIDs 01-20", Bytes: 4, Decoder: DecoderPIDSupport},
	"0101": {Command: "0101", Desc: "Monitor status since DTCs cleared", ShortDesc: "Status", Bytes: 4, Decoder: DecoderStatus},
	"0102": {Command: "0102", Desc: "DTC that caused the freeze frame", ShortDesc: "Freeze DTC", Bytes: 2, Decoder: DecoderSingleDTC},
	"0103": {Command: "0103", Desc: "Fuel system status", ShortDesc: "Fuel status", Bytes: 2, Decoder: DecoderFuelStatus},
	"0104": {Command: "0104", Desc: "Calculated engine load", ShortDesc: "Load", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"0105": {Command: "0105", Desc: "Engine coolant temperature", ShortDesc: "Coolant", Bytes: 1, Decoder: DecoderTemp, Live: true, Min: -40, Max: 215},
	"0106": {Command: "0106", Desc: "Short term fuel trim, bank 1", ShortDesc: "STFT B1", Bytes: 1, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"0107": {Command: "0107", Desc: "Long term fuel trim, bank 1", ShortDesc: "LTFT B1", Bytes: 1, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"0108": {Command: "0108", Desc: "Short term fuel trim, bank 2", ShortDesc: "STFT B2", Bytes: 1, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"0109": {Command: "0109", Desc: "Long term fuel trim, bank 2", ShortDesc: "LTFT B2", Bytes: 1, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"010A": {Command: "010A", Desc: "Fuel pressure", ShortDesc: "Fuel pressure", Bytes: 1, Decoder: DecoderFuelPressure, Live: true, Min: 0, Max: 765},
	"010B": {Command: "010B", Desc: "Intake manifold absolute pressure", ShortDesc: "MAP", Bytes: 1, Decoder: DecoderPressure, Live: true, Min: 0, Max: 255},
	"010C": {Command: "010C", Desc: "Engine speed", ShortDesc: "RPM", Bytes: 2, Decoder: DecoderRPM, Live: true, Min: 0, Max: 16383.75},
	"010D": {Command: "010D", Desc: "Vehicle speed", ShortDesc: "Speed", Bytes: 1, Decoder: DecoderSpeed, Live: true, Min: 0, Max: 255},
	"010E": {Command: "010E", Desc: "Timing advance before TDC", ShortDesc: "Timing", Bytes: 1, Decoder: DecoderTimingAdvance, Live: true, Min: -64, Max: 63.5},
	"010F": {Command: "010F", Desc: "Intake air temperature", ShortDesc: "IAT", Bytes: 1, Decoder: DecoderTemp, Live: true, Min: -40, Max: 215},
	"0110": {Command: "0110", Desc: "MAF air flow rate", ShortDesc: "MAF", Bytes: 2, Decoder: DecoderMAF, Live: true, Min: 0, Max: 655.35},
	"0111": {Command: "0111", Desc: "Throttle position", ShortDesc: "Throttle", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"0112": {Command: "0112", Desc: "Commanded secondary air status", ShortDesc: "Air status", Bytes: 1, Decoder: DecoderAirStatus},
	"0113": {Command: "0113", Desc: "Oxygen sensors present, 2 banks", ShortDesc: "O2 present", Bytes: 1, Decoder: DecoderO2SensorsPresent},
	"0114": {Command: "0114", Desc: "Oxygen sensor 1 voltage and trim", ShortDesc: "O2 S1", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"0115": {Command: "0115", Desc: "Oxygen sensor 2 voltage and trim", ShortDesc: "O2 S2", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"0116": {Command: "0116", Desc: "Oxygen sensor 3 voltage and trim", ShortDesc: "O2 S3", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"0117": {Command: "0117", Desc: "Oxygen sensor 4 voltage and trim", ShortDesc: "O2 S4", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"0118": {Command: "0118", Desc: "Oxygen sensor 5 voltage and trim", ShortDesc: "O2 S5", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"0119": {Command: "0119", Desc: "Oxygen sensor 6 voltage and trim", ShortDesc: "O2 S6", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"011A": {Command: "011A", Desc: "Oxygen sensor 7 voltage and trim", ShortDesc: "O2 S7", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"011B": {Command: "011B", Desc: "Oxygen sensor 8 voltage and trim", ShortDesc: "O2 S8", Bytes: 2, Decoder: DecoderSensorVoltage, Live: true, Min: 0, Max: 1.275},
	"011C": {Command: "011C", Desc: "OBD standards the vehicle conforms to", ShortDesc: "OBD standard", Bytes: 1, Decoder: DecoderOBDCompliance},
	"011D": {Command: "011D", Desc: "Oxygen sensors present, 4 banks", ShortDesc: "O2 present 4", Bytes: 1, Decoder: DecoderO2SensorsPresent},
	"011E": {Command: "011E", Desc: "Auxiliary input status", ShortDesc: "Aux input", Bytes: 1, Decoder: DecoderRaw},
	"011F": {Command: "011F", Desc: "Run time since engine start", ShortDesc: "Run time", Bytes: 2, Decoder: DecoderSeconds, Live: true, Min: 0, Max: 65535},
	"0120": {Command: "0120", Desc: "Supported PIDs 21-40", ShortDesc: "PIDs 21-40", Bytes: 4, Decoder: DecoderPIDSupport},
	"0121": {Command: "0121", Desc: "Distance traveled with MIL on", ShortDesc: "MIL distance", Bytes: 2, Decoder: DecoderDistance, Live: true, Min: 0, Max: 65535},
	"0122": {Command: "0122", Desc: "Fuel rail pressure relative to manifold vacuum", ShortDesc: "Rail pressure", Bytes: 2, Decoder: DecoderFuelRailPressure, Live: true, Min: 0, Max: 5177.27},
	"0123": {Command: "0123", Desc: "Fuel rail gauge pressure", ShortDesc: "Rail gauge", Bytes: 2, Decoder: DecoderFuelRailGauge, Live: true, Min: 0, Max: 655350},
	"0124": {Command: "0124", Desc: "Oxygen sensor 1 lambda and voltage", ShortDesc: "O2 S1 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"0125": {Command: "0125", Desc: "Oxygen sensor 2 lambda and voltage", ShortDesc: "O2 S2 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"0126": {Command: "0126", Desc: "Oxygen sensor 3 lambda and voltage", ShortDesc: "O2 S3 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"0127": {Command: "0127", Desc: "Oxygen sensor 4 lambda and voltage", ShortDesc: "O2 S4 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"0128": {Command: "0128", Desc: "Oxygen sensor 5 lambda and voltage", ShortDesc: "O2 S5 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"0129": {Command: "0129", Desc: "Oxygen sensor 6 lambda and voltage", ShortDesc: "O2 S6 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"012A": {Command: "012A", Desc: "Oxygen sensor 7 lambda and voltage", ShortDesc: "O2 S7 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"012B": {Command: "012B", Desc: "Oxygen sensor 8 lambda and voltage", ShortDesc: "O2 S8 wide", Bytes: 4, Decoder: DecoderSensorVoltageWide, Live: true, Min: 0, Max: 8},
	"012C": {Command: "012C", Desc: "Commanded EGR", ShortDesc: "EGR", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"012D": {Command: "012D", Desc: "EGR error", ShortDesc: "EGR error", Bytes: 1, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"012E": {Command: "012E", Desc: "Commanded evaporative purge", ShortDesc: "Evap purge", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"012F": {Command: "012F", Desc: "Fuel tank level input", ShortDesc: "Fuel level", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"0130": {Command: "0130", Desc: "Warm-ups since codes cleared", ShortDesc: "Warm-ups", Bytes: 1, Decoder: DecoderCount, Min: 0, Max: 255},
	"0131": {Command: "0131", Desc: "Distance traveled since codes cleared", ShortDesc: "Distance", Bytes: 2, Decoder: DecoderDistance, Live: true, Min: 0, Max: 65535},
	"0132": {Command: "0132", Desc: "Evap system vapor pressure", ShortDesc: "Evap pressure", Bytes: 2, Decoder: DecoderEvapPressure, Live: true, Min: -8192, Max: 8191.75},
	"0133": {Command: "0133", Desc: "Absolute barometric pressure", ShortDesc: "Baro", Bytes: 1, Decoder: DecoderPressure, Live: true, Min: 0, Max: 255},
	"0134": {Command: "0134", Desc: "Oxygen sensor 1 lambda and current", ShortDesc: "O2 S1 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"0135": {Command: "0135", Desc: "Oxygen sensor 2 lambda and current", ShortDesc: "O2 S2 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"0136": {Command: "0136", Desc: "Oxygen sensor 3 lambda and current", ShortDesc: "O2 S3 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"0137": {Command: "0137", Desc: "Oxygen sensor 4 lambda and current", ShortDesc: "O2 S4 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"0138": {Command: "0138", Desc: "Oxygen sensor 5 lambda and current", ShortDesc: "O2 S5 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"0139": {Command: "0139", Desc: "Oxygen sensor 6 lambda and current", ShortDesc: "O2 S6 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"013A": {Command: "013A", Desc: "Oxygen sensor 7 lambda and current", ShortDesc: "O2 S7 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"013B": {Command: "013B", Desc: "Oxygen sensor 8 lambda and current", ShortDesc: "O2 S8 current", Bytes: 4, Decoder: DecoderCurrentCentered, Live: true, Min: -128, Max: 128},
	"013C": {Command: "013C", Desc: "Catalyst temperature, bank 1 sensor 1", ShortDesc: "Cat B1S1", Bytes: 2, Decoder: DecoderCatTemp, Live: true, Min: -40, Max: 6513.5},
	"013D": {Command: "013D", Desc: "Catalyst temperature, bank 2 sensor 1", ShortDesc: "Cat B2S1", Bytes: 2, Decoder: DecoderCatTemp, Live: true, Min: -40, Max: 6513.5},
	"013E": {Command: "013E", Desc: "Catalyst temperature, bank 1 sensor 2", ShortDesc: "Cat B1S2", Bytes: 2, Decoder: DecoderCatTemp, Live: true, Min: -40, Max: 6513.5},
	"013F": {Command: "013F", Desc: "Catalyst temperature, bank 2 sensor 2", ShortDesc: "Cat B2S2", Bytes: 2, Decoder: DecoderCatTemp, Live: true, Min: -40, Max: 6513.5},
	"0140": {Command: "0140", Desc: "Supported PIDs 41-60", ShortDesc: "PIDs 41-60", Bytes: 4, Decoder: DecoderPIDSupport},
	"0141": {Command: "0141", Desc: "Monitor status this drive cycle", ShortDesc: "Cycle status", Bytes: 4, Decoder: DecoderStatus},
	"0142": {Command: "0142", Desc: "Control module voltage", ShortDesc: "Module voltage", Bytes: 2, Decoder: DecoderModuleVoltage, Live: true, Min: 0, Max: 65.535},
	"0143": {Command: "0143", Desc: "Absolute load value", ShortDesc: "Abs load", Bytes: 2, Decoder: DecoderAbsoluteLoad, Live: true, Min: 0, Max: 25700},
	"0144": {Command: "0144", Desc: "Commanded equivalence ratio", ShortDesc: "Lambda", Bytes: 2, Decoder: DecoderEquivRatio, Live: true, Min: 0, Max: 2},
	"0145": {Command: "0145", Desc: "Relative throttle position", ShortDesc: "Rel throttle", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"0146": {Command: "0146", Desc: "Ambient air temperature", ShortDesc: "Ambient", Bytes: 1, Decoder: DecoderTemp, Live: true, Min: -40, Max: 215},
	"0147": {Command: "0147", Desc: "Absolute throttle position B", ShortDesc: "Throttle B", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"0148": {Command: "0148", Desc: "Absolute throttle position C", ShortDesc: "Throttle C", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"0149": {Command: "0149", Desc: "Accelerator pedal position D", ShortDesc: "Pedal D", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"014A": {Command: "014A", Desc: "Accelerator pedal position E", ShortDesc: "Pedal E", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"014B": {Command: "014B", Desc: "Accelerator pedal position F", ShortDesc: "Pedal F", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"014C": {Command: "014C", Desc: "Commanded throttle actuator", ShortDesc: "Throttle cmd", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"014D": {Command: "014D", Desc: "Time run with MIL on", ShortDesc: "MIL time", Bytes: 2, Decoder: DecoderMinutes, Min: 0, Max: 65535},
	"014E": {Command: "014E", Desc: "Time since trouble codes cleared", ShortDesc: "Clear time", Bytes: 2, Decoder: DecoderMinutes, Min: 0, Max: 65535},
	"014F": {Command: "014F", Desc: "Maximum equivalence ratio, O2 voltage, current and MAP", ShortDesc: "Max values", Bytes: 4, Decoder: DecoderRaw},
	"0150": {Command: "0150", Desc: "Maximum MAF air flow rate", ShortDesc: "Max MAF", Bytes: 4, Decoder: DecoderMAFMax, Min: 0, Max: 2550},
	"0151": {Command: "0151", Desc: "Fuel type", ShortDesc: "Fuel type", Bytes: 1, Decoder: DecoderFuelType},
	"0152": {Command: "0152", Desc: "Ethanol fuel percentage", ShortDesc: "Ethanol", Bytes: 1, Decoder: DecoderPercent, Min: 0, Max: 100},
	"0153": {Command: "0153", Desc: "Absolute evap system vapor pressure", ShortDesc: "Abs evap", Bytes: 2, Decoder: DecoderEvapPressureAlt, Min: 0, Max: 65.535},
	"0154": {Command: "0154", Desc: "Evap system vapor pressure, wide range", ShortDesc: "Evap wide", Bytes: 2, Decoder: DecoderEvapPressureWide, Min: -32767, Max: 32768},
	"0155": {Command: "0155", Desc: "Short term secondary O2 trim, bank 1", ShortDesc: "STSOT B1", Bytes: 2, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"0156": {Command: "0156", Desc: "Long term secondary O2 trim, bank 1", ShortDesc: "LTSOT B1", Bytes: 2, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"0157": {Command: "0157", Desc: "Short term secondary O2 trim, bank 2", ShortDesc: "STSOT B2", Bytes: 2, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"0158": {Command: "0158", Desc: "Long term secondary O2 trim, bank 2", ShortDesc: "LTSOT B2", Bytes: 2, Decoder: DecoderPercentCentered, Live: true, Min: -100, Max: 100},
	"0159": {Command: "0159", Desc: "Fuel rail absolute pressure", ShortDesc: "Rail abs", Bytes: 2, Decoder: DecoderFuelRailGauge, Min: 0, Max: 655350},
	"015A": {Command: "015A", Desc: "Relative accelerator pedal position", ShortDesc: "Rel pedal", Bytes: 1, Decoder: DecoderPercent, Live: true, Min: 0, Max: 100},
	"015B": {Command: "015B", Desc: "Hybrid battery pack remaining life", ShortDesc: "Battery life", Bytes: 1, Decoder: DecoderPercent, Min: 0, Max: 100},
	"015C": {Command: "015C", Desc: "Engine oil temperature", ShortDesc: "Oil temp", Bytes: 1, Decoder: DecoderTemp, Live: true, Min: -40, Max: 215},
	"015D": {Command: "015D", Desc: "Fuel injection timing", ShortDesc: "Injection", Bytes: 2, Decoder: DecoderInjectionTiming, Live: true, Min: -210, Max: 301.9921875},
	"015E": {Command: "015E", Desc: "Engine fuel rate", ShortDesc: "Fuel rate", Bytes: 2, Decoder: DecoderFuelRate, Live: true, Min: 0, Max: 3276.75},
	"015F": {Command: "015F", Desc: "Emission requirements the vehicle is designed to", ShortDesc: "Emission std", Bytes: 1, Decoder: DecoderRaw},
	"0160": {Command: "0160", Desc: "Supported PIDs 61-80", ShortDesc: "PIDs 61-80", Bytes: 4, Decoder: DecoderPIDSupport},

	// Mode 03/04/07 — trouble codes
	"03": {Command: "03", Desc: "Request stored trouble codes", ShortDesc: "DTCs", Decoder: DecoderDTCList},
	"04": {Command: "04", Desc: "Clear trouble codes and MIL", ShortDesc: "Clear DTCs", Decoder: DecoderNone},
	"07": {Command: "07", Desc: "Request pending trouble codes", ShortDesc: "Pending DTCs", Decoder: DecoderDTCList},

	// Mode 06 — on-board monitoring getters
	"0600": {Command: "0600", Desc: "Supported MIDs 01-20", ShortDesc: "MIDs 01-20", Bytes: 4, Decoder: DecoderPIDSupport},
	"0620": {Command: "0620", Desc: "Supported MIDs 21-40", ShortDesc: "MIDs 21-40", Bytes: 4, Decoder: DecoderPIDSupport},
	"0640": {Command: "0640", Desc: "Supported MIDs 41-60", ShortDesc: "MIDs 41-60", Bytes: 4, Decoder: DecoderPIDSupport},
	"0660": {Command: "0660", Desc: "Supported MIDs 61-80", ShortDesc: "MIDs 61-80", Bytes: 4, Decoder: DecoderPIDSupport},
	"0680": {Command: "0680", Desc: "Supported MIDs 81-A0", ShortDesc: "MIDs 81-A0", Bytes: 4, Decoder: DecoderPIDSupport},
	"06A0": {Command: "06A0", Desc: "Supported MIDs A1-C0", ShortDesc: "MIDs A1-C0", Bytes: 4, Decoder: DecoderPIDSupport},
	"06C0": {Command: "06C0", Desc: "Supported MIDs C1-E0", ShortDesc: "MIDs C1-E0", Bytes: 4, Decoder: DecoderPIDSupport},
	"06E0": {Command: "06E0", Desc: "Supported MIDs E1-FF", ShortDesc: "MIDs E1-FF", Bytes: 4, Decoder: DecoderPIDSupport},

	// Mode 09 — vehicle identification
	"0900": {Command: "0900", Desc: "Supported mode 09 PIDs", ShortDesc: "Info PIDs", Bytes: 4, Decoder: DecoderPIDSupport},
	"0902": {Command: "0902", Desc: "Vehicle identification number", ShortDesc: "VIN", Decoder: DecoderEncodedString},
	"0904": {Command: "0904", Desc: "Calibration ID", ShortDesc: "CALID", Decoder: DecoderEncodedString},
	"0906": {Command: "0906", Desc: "Calibration verification numbers", ShortDesc: "CVN", Decoder: DecoderCVN},
	"090A": {Command: "090A", Desc: "ECU name", ShortDesc: "ECU name", Decoder: DecoderEncodedString},

	// Adapter commands
	"ATRV":  {Command: "ATRV", Desc: "Adapter supply voltage", ShortDesc: "Voltage", Decoder: DecoderNone},
	"ATI":   {Command: "ATI", Desc: "Adapter version banner", ShortDesc: "Version", Decoder: DecoderNone},
	"ATDPN": {Command: "ATDPN", Desc: "Describe protocol by number", ShortDesc: "Protocol", Decoder: DecoderNone},
}
