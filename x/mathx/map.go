package mathx

// MapRange maps x in [inMin,inMax] to [outMin,outMax] with rounding and
// 64-bit intermediates. Input outside the range clamps to the output bounds.
// The workhorse behind degree-to-pulse-width conversion.
func MapRange(x, inMin, inMax, outMin, outMax int) int {
	if inMax == inMin {
		return outMin
	}
	if inMax < inMin {
		inMin, inMax = inMax, inMin
		outMin, outMax = outMax, outMin
	}
	if x <= inMin {
		return outMin
	}
	if x >= inMax {
		return outMax
	}
	num := int64(x-inMin) * int64(outMax-outMin)
	den := int64(inMax - inMin)
	if num >= 0 {
		num += den / 2
	} else {
		num -= den / 2
	}
	return outMin + int(num/den)
}
